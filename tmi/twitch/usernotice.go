// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package twitch

import (
	"github.com/ergochat/tmi-go/tmi/irc"
)

// NoticeType is the kind of a USERNOTICE, from its msg-id tag.
type NoticeType string

const (
	NoticeSub                 NoticeType = "sub"
	NoticeResub               NoticeType = "resub"
	NoticeSubGift             NoticeType = "subgift"
	NoticeSubMysteryGift      NoticeType = "submysterygift"
	NoticeGiftPaidUpgrade     NoticeType = "giftpaidupgrade"
	NoticeRewardGift          NoticeType = "rewardgift"
	NoticeAnonGiftPaidUpgrade NoticeType = "anongiftpaidupgrade"
	NoticeRaid                NoticeType = "raid"
	NoticeUnraid              NoticeType = "unraid"
	NoticeRitual              NoticeType = "ritual"
	NoticeBitsBadgeTier       NoticeType = "bitsbadgetier"
)

// SubPlan is the subscription tier named in a sub or resub notice.
type SubPlan string

const (
	SubPlanPrime SubPlan = "Prime"
	SubPlanTier1 SubPlan = "1000"
	SubPlanTier2 SubPlan = "2000"
	SubPlanTier3 SubPlan = "3000"
)

// UserNotice is a channel event with a system message: subscriptions,
// gift subs, raids, rituals. The user may have attached their own message
// (Data); most notices have none.
type UserNotice struct {
	Raw
	Channel string
	Data    string
}

func parseUserNotice(msg irc.Message) (Event, error) {
	channel, err := expectParam(&msg, 0, CmdUserNotice, "channel")
	if err != nil {
		return nil, err
	}
	userNotice := &UserNotice{Raw: Raw{msg}, Channel: trimChannel(channel)}
	if len(msg.Params) > 1 {
		userNotice.Data = msg.Params[1]
	}
	return userNotice, nil
}

// NoticeType returns the kind of this notice. Unrecognized kinds are
// returned verbatim; compare against the Notice* constants for the
// known ones.
func (msg *UserNotice) NoticeType() NoticeType {
	return NoticeType(msg.tagValue("msg-id"))
}

// SystemMsg returns the server-rendered description of the event, e.g.
// "ronni has subscribed for 6 months!".
func (msg *UserNotice) SystemMsg() string {
	return msg.tagValue("system-msg")
}

// Login returns the login of the user the notice is about.
func (msg *UserNotice) Login() string {
	return msg.tagValue("login")
}

// ID returns the unique id of this notice, if present.
func (msg *UserNotice) ID() string {
	return msg.tagValue("id")
}

// BadgeInfo returns metadata for the user's badges.
func (msg *UserNotice) BadgeInfo() []Badge {
	return ParseBadges(msg.tagValue("badge-info"))
}

// Badges returns the badges of the user the notice is about.
func (msg *UserNotice) Badges() []Badge {
	return ParseBadges(msg.tagValue("badges"))
}

// Color returns the user's chat color, if set.
func (msg *UserNotice) Color() string {
	return msg.tagValue("color")
}

// DisplayName returns the user's display name, if set.
func (msg *UserNotice) DisplayName() string {
	return msg.tagValue("display-name")
}

// Emotes returns the emotes attached to the user's message.
func (msg *UserNotice) Emotes() []Emote {
	return ParseEmotes(msg.tagValue("emotes"))
}

// RoomID returns the id of the room the notice happened in.
func (msg *UserNotice) RoomID() (id uint64, ok bool) {
	return msg.tagUint("room-id")
}

// UserID returns the id of the user the notice is about.
func (msg *UserNotice) UserID() (id uint64, ok bool) {
	return msg.tagUint("user-id")
}

// TmiSentTs returns the timestamp (unix milliseconds) of the notice.
func (msg *UserNotice) TmiSentTs() (ts uint64, ok bool) {
	return msg.tagUint("tmi-sent-ts")
}

// SubPlan returns the subscription tier named by the notice, if any.
func (msg *UserNotice) SubPlan() SubPlan {
	return SubPlan(msg.tagValue("msg-param-sub-plan"))
}

// SubPlanName returns the channel's display name for the tier, if any.
func (msg *UserNotice) SubPlanName() string {
	return msg.tagValue("msg-param-sub-plan-name")
}

// CumulativeMonths returns the total months subscribed, on sub/resub.
func (msg *UserNotice) CumulativeMonths() (months uint64, ok bool) {
	return msg.tagUint("msg-param-cumulative-months")
}

// StreakMonths returns the current subscription streak, if shared.
func (msg *UserNotice) StreakMonths() (months uint64, ok bool) {
	return msg.tagUint("msg-param-streak-months")
}

// ShouldShareStreak reports whether the user chose to share their streak.
func (msg *UserNotice) ShouldShareStreak() bool {
	return msg.tagBool("msg-param-should-share-streak")
}

// RecipientDisplayName returns the gift recipient's display name, on
// subgift notices.
func (msg *UserNotice) RecipientDisplayName() string {
	return msg.tagValue("msg-param-recipient-display-name")
}

// RecipientUserName returns the gift recipient's login, on subgift notices.
func (msg *UserNotice) RecipientUserName() string {
	return msg.tagValue("msg-param-recipient-user-name")
}

// RecipientID returns the gift recipient's id, on subgift notices.
func (msg *UserNotice) RecipientID() (id uint64, ok bool) {
	return msg.tagUint("msg-param-recipient-id")
}

// GiftMonths returns how many months were gifted, on subgift notices.
func (msg *UserNotice) GiftMonths() (months uint64, ok bool) {
	return msg.tagUint("msg-param-gift-months")
}

// ViewerCount returns the size of the raiding party, on raid notices.
func (msg *UserNotice) ViewerCount() (count uint64, ok bool) {
	return msg.tagUint("msg-param-viewerCount")
}

// RitualName returns the name of the ritual, on ritual notices.
func (msg *UserNotice) RitualName() string {
	return msg.tagValue("msg-param-ritual-name")
}

// Threshold returns the bits badge tier just earned, on bitsbadgetier
// notices.
func (msg *UserNotice) Threshold() (threshold uint64, ok bool) {
	return msg.tagUint("msg-param-threshold")
}

// PromoGiftTotal returns the number of gifts given during a promo.
func (msg *UserNotice) PromoGiftTotal() (total uint64, ok bool) {
	return msg.tagUint("msg-param-promo-gift-total")
}

// PromoName returns the name of the subscription promo, if any.
func (msg *UserNotice) PromoName() string {
	return msg.tagValue("msg-param-promo-name")
}

// SenderLogin returns the original gifter's login, on paid upgrade notices.
func (msg *UserNotice) SenderLogin() string {
	return msg.tagValue("msg-param-sender-login")
}

// SenderName returns the original gifter's display name, on paid upgrade
// notices.
func (msg *UserNotice) SenderName() string {
	return msg.tagValue("msg-param-sender-name")
}
