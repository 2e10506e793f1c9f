package handlers

import (
	"mmr-balancer/internal/service"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

func GetBalanceCommand(lineupService *service.LineupService) ext.Handler {
	return handlers.NewCommand("balance", func(b *gotgbot.Bot, ctx *ext.Context) error {
		return lineupService.HandleBalanceCommand(b, ctx)
	})
}

func GetResultCommand(lineupService *service.LineupService) ext.Handler {
	return handlers.NewCommand("result", func(b *gotgbot.Bot, ctx *ext.Context) error {
		return lineupService.HandleResultCommand(b, ctx)
	})
}

func GetHelpCommand(lineupService *service.LineupService) ext.Handler {
	return handlers.NewCommand("help", func(b *gotgbot.Bot, ctx *ext.Context) error {
		return lineupService.HandleHelpCommand(b, ctx)
	})
}
