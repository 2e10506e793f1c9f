package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mmr-balancer/internal/domain"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const ladderPageSize = 10

type LadderSource interface {
	Ladder() ([]domain.LadderEntry, error)
}

type LadderService struct {
	source LadderSource
}

func NewLadderService(source LadderSource) *LadderService {
	return &LadderService{source: source}
}

func (s *LadderService) HandleLadderCommand(b *gotgbot.Bot, ctx *ext.Context) error {
	text, keyboard, err := s.buildLadderMessage(0)
	if err != nil {
		return err
	}
	_, _ = ctx.EffectiveMessage.Reply(b, text, &gotgbot.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	return nil
}

func (s *LadderService) HandleLadderCallback(b *gotgbot.Bot, ctx *ext.Context) error {
	cb := ctx.CallbackQuery
	_, rawPage, _ := strings.Cut(cb.Data, ":")
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		page = 0
	}

	text, keyboard, err := s.buildLadderMessage(page)
	if err != nil {
		cb.Answer(b, nil)
		return err
	}

	_, _, _ = cb.Message.EditText(b, text, &gotgbot.EditMessageTextOpts{
		ReplyMarkup: keyboard,
	})
	cb.Answer(b, nil)
	return nil
}

func (s *LadderService) buildLadderMessage(page int) (string, gotgbot.InlineKeyboardMarkup, error) {
	entries, err := s.source.Ladder()
	if err != nil {
		return "", gotgbot.InlineKeyboardMarkup{}, err
	}

	totalPages := int(math.Ceil(float64(len(entries)) / float64(ladderPageSize)))
	if totalPages == 0 {
		totalPages = 1
	}
	page = min(max(page, 0), totalPages-1)

	start := page * ladderPageSize
	end := min(start+ladderPageSize, len(entries))

	var builder strings.Builder
	builder.WriteString("Ladder\n\n")
	if len(entries) == 0 {
		builder.WriteString("no ranked players yet")
	}
	for _, e := range entries[start:end] {
		fmt.Fprintf(&builder, "%d. %s [%s] %.1f MMR, %d/%d recent wins\n",
			e.Rank, e.Name, e.Server, e.Rating, e.Wins, domain.HistorySize)
	}
	if totalPages > 1 {
		fmt.Fprintf(&builder, "\nPage %d/%d", page+1, totalPages)
	}

	return builder.String(), buildLadderKeyboard(page, totalPages), nil
}

func buildLadderKeyboard(page, totalPages int) gotgbot.InlineKeyboardMarkup {
	var nav []gotgbot.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, gotgbot.InlineKeyboardButton{
			Text:         "⬅️ Back",
			CallbackData: fmt.Sprintf("ladder:%d", page-1),
		})
	}
	if page < totalPages-1 {
		nav = append(nav, gotgbot.InlineKeyboardButton{
			Text:         "Next ➡️",
			CallbackData: fmt.Sprintf("ladder:%d", page+1),
		})
	}
	if len(nav) == 0 {
		return gotgbot.InlineKeyboardMarkup{InlineKeyboard: [][]gotgbot.InlineKeyboardButton{}}
	}
	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: [][]gotgbot.InlineKeyboardButton{nav}}
}
