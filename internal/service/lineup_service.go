package service

import (
	"errors"
	"fmt"
	"html"
	"strconv"

	"mmr-balancer/internal/cache"
	"mmr-balancer/internal/domain"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"go.uber.org/zap"
)

var (
	ErrInvalidInput   = errors.New("expected a whole number")
	ErrNoPendingMatch = errors.New("no pending match")
)

// ParseResultArgs reads "<winner> <margin>" as typed after /result.
func ParseResultArgs(args []string) (winner, margin int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: want <winner> <margin>, got %d values", ErrInvalidInput, len(args))
	}
	if winner, err = strconv.Atoi(args[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: winner %q", ErrInvalidInput, args[0])
	}
	if margin, err = strconv.Atoi(args[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: margin %q", ErrInvalidInput, args[1])
	}
	return winner, margin, nil
}

type LineupService struct {
	matches *MatchService
	pending *cache.PendingLineups
	auth    *AuthService
	logger  *zap.Logger
}

func NewLineupService(matches *MatchService, pending *cache.PendingLineups, auth *AuthService, logger *zap.Logger) *LineupService {
	return &LineupService{matches: matches, pending: pending, auth: auth, logger: logger}
}

func reply(b *gotgbot.Bot, msg *gotgbot.Message, text string) {
	_, _ = msg.Reply(b, text, &gotgbot.SendMessageOpts{})
}

func replyPre(b *gotgbot.Bot, msg *gotgbot.Message, header, body string) {
	text := html.EscapeString(header) + "\n<pre>" + html.EscapeString(body) + "</pre>"
	_, _ = msg.Reply(b, text, &gotgbot.SendMessageOpts{ParseMode: gotgbot.ParseModeHTML})
}

func (s *LineupService) HandleBalanceCommand(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	if !s.auth.CanManageMatches(b, msg.Chat, msg.From.Id) {
		reply(b, msg, "Only chat admins can start a match.")
		return nil
	}

	lineup, err := s.matches.Propose()
	if errors.Is(err, domain.ErrInvalidPoolSize) {
		reply(b, msg, fmt.Sprintf("Need %d ranked players to build a match.", domain.PoolSize))
		return nil
	}
	if err != nil {
		return err
	}

	p := s.pending.Put(msg.Chat.Id, playerIDs(lineup.TeamA), playerIDs(lineup.TeamB))
	s.logger.Info("Lineup pending.", zap.Int64("chat_id", msg.Chat.Id), zap.Stringer("match_id", p.MatchID))

	replyPre(b, msg, "Balanced teams:", FormatLineup(lineup)+"\nReport with /result <1|2> <margin>")
	return nil
}

func (s *LineupService) HandleResultCommand(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	if !s.auth.CanManageMatches(b, msg.Chat, msg.From.Id) {
		reply(b, msg, "Only chat admins can report results.")
		return nil
	}

	winner, margin, err := ParseResultArgs(ctx.Args()[1:])
	if err != nil {
		reply(b, msg, "Usage: /result <1|2> <margin>")
		return nil
	}

	before, after, err := s.applyPending(msg.Chat.Id, winner, margin)
	switch {
	case errors.Is(err, ErrNoPendingMatch):
		reply(b, msg, "No pending match. Start one with /balance.")
		return nil
	case errors.Is(err, domain.ErrPlayerNotFound):
		reply(b, msg, "The pending match no longer matches the stored players. Start a new one with /balance.")
		return nil
	case errors.Is(err, domain.ErrInvalidWinnerSelection):
		reply(b, msg, "Winner must be 1 or 2.")
		return nil
	case err != nil:
		reply(b, msg, "Saving the result failed, nothing was changed. Try again.")
		return err
	}

	replyPre(b, msg, fmt.Sprintf("Team %d wins by %d.", winner, margin), FormatChanges(before, after))
	return nil
}

// applyPending reports the result of the chat's pending match. The pending
// lineup is dropped once the result is stored, or when its players are gone.
func (s *LineupService) applyPending(chatId int64, winner, margin int) (before, after domain.Lineup, err error) {
	p, ok := s.pending.Get(chatId)
	if !ok {
		return domain.Lineup{}, domain.Lineup{}, ErrNoPendingMatch
	}

	before, err = s.matches.Load(p.TeamA, p.TeamB)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			s.pending.Resolve(chatId, p.MatchID)
			s.logger.Warn("Dropped pending lineup with unknown players.",
				zap.Int64("chat_id", chatId), zap.Stringer("match_id", p.MatchID))
		}
		return domain.Lineup{}, domain.Lineup{}, err
	}

	after, err = s.matches.Report(before, winner, margin)
	if err != nil {
		return domain.Lineup{}, domain.Lineup{}, err
	}

	s.pending.Resolve(chatId, p.MatchID)
	s.logger.Info("Match result stored.", zap.Int64("chat_id", chatId), zap.Stringer("match_id", p.MatchID))
	return before, after, nil
}

func (s *LineupService) HandleHelpCommand(b *gotgbot.Bot, ctx *ext.Context) error {
	text := "Available commands:\n\n" +
		"/balance - pick 10 players and split them into two even teams\n" +
		"/result <1|2> <margin> - report the winner and the score margin\n" +
		"/ladder - ratings of all players\n" +
		"/help - this list"
	reply(b, ctx.EffectiveMessage, text)
	return nil
}
