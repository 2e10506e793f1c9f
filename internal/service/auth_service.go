package service

import (
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/samber/lo"
)

type AuthService struct {
	devIDs []int64
}

func NewAuthService(devIDs []int64) *AuthService {
	return &AuthService{devIDs: devIDs}
}

func (a *AuthService) IsDev(userId int64) bool {
	return lo.Contains(a.devIDs, userId)
}

// CanManageMatches allows devs, private chats with the bot, and group admins
// to propose lineups and report results.
func (a *AuthService) CanManageMatches(b *gotgbot.Bot, chat gotgbot.Chat, userId int64) bool {
	if a.IsDev(userId) || chat.Type == "private" {
		return true
	}
	member, err := b.GetChatMember(chat.Id, userId, nil)
	if err != nil {
		return false
	}
	status := member.GetStatus()
	return status == "creator" || status == "administrator"
}
