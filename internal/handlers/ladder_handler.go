package handlers

import (
	"mmr-balancer/internal/service"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
)

func GetLadderCommand(ladderService *service.LadderService) ext.Handler {
	return handlers.NewCommand("ladder", func(b *gotgbot.Bot, ctx *ext.Context) error {
		return ladderService.HandleLadderCommand(b, ctx)
	})
}

func GetLadderCallback(ladderService *service.LadderService) ext.Handler {
	return handlers.NewCallback(callbackquery.Prefix("ladder:"), func(b *gotgbot.Bot, ctx *ext.Context) error {
		return ladderService.HandleLadderCallback(b, ctx)
	})
}
