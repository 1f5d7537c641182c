// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package caps

// Capability represents an optional feature that the client may request
// from the server during connection registration.
type Capability string

const (
	// Tags is the Twitch capability for message tag delivery: https://dev.twitch.tv/docs/irc/tags
	Tags Capability = "twitch.tv/tags"
	// Commands is the Twitch capability for vendor command extensions
	// (CLEARCHAT, USERNOTICE, ROOMSTATE, etc.): https://dev.twitch.tv/docs/irc/commands
	Commands Capability = "twitch.tv/commands"
	// Membership is the Twitch capability for JOIN/PART membership events:
	// https://dev.twitch.tv/docs/irc/membership
	Membership Capability = "twitch.tv/membership"
)

// Supported lists every capability this client knows how to request.
func Supported() []Capability {
	return []Capability{Tags, Commands, Membership}
}

// Name returns the name of the given capability.
func (capability Capability) Name() string {
	return string(capability)
}
