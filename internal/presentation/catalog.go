package presentation

import (
	"maps"
	"strings"
)

// Message keys.
const (
	MsgLevelBegin     = "level-begin"
	MsgTimeInfo       = "time-info"
	MsgLevelComplete  = "level-complete"
	MsgTargetTime     = "target-time"
	MsgEnd            = "end"
	MsgLevelStat      = "level-stat"
	MsgEndTeleport    = "end-teleport"
	MsgSettingDenied  = "setting-denied"
	MsgSettingToggled = "setting-toggled"
)

var defaultMessages = map[string]string{
	MsgLevelBegin:     "Level <level> has begun!",
	MsgTimeInfo:       "Reach the next level within <duration> to beat the target time.",
	MsgLevelComplete:  "Level <level> complete!",
	MsgTargetTime:     "You beat the target time!",
	MsgEnd:            "You finished the course!",
	MsgLevelStat:      "Level <lnumber>: <ltime>",
	MsgEndTeleport:    "Sending you back to spawn...",
	MsgSettingDenied:  "Could not change <setting> for this run.",
	MsgSettingToggled: "<setting> is now <state>.",
}

// Catalog resolves message keys to text.
type Catalog struct {
	messages map[string]string
}

// NewCatalog returns the built-in messages with overrides applied. Empty
// overrides are ignored.
func NewCatalog(overrides map[string]string) *Catalog {
	c := &Catalog{
		messages: maps.Clone(defaultMessages),
	}

	for k, v := range overrides {
		if strings.TrimSpace(v) == "" {
			continue
		}

		c.messages[k] = v
	}

	return c
}

// Keys returns the keys of the built-in messages.
func Keys() []string {
	keys := make([]string, 0, len(defaultMessages))
	for k := range defaultMessages {
		keys = append(keys, k)
	}

	return keys
}

// Render returns the message for key with placeholders replaced.
// Placeholders are given as name/value pairs, e.g. "<level>", "2". Unknown
// keys render as the key itself.
func (c *Catalog) Render(key string, placeholders ...string) string {
	msg, ok := c.messages[key]
	if !ok {
		msg = key
	}

	if len(placeholders) < 2 {
		return msg
	}

	// a trailing name without a value is dropped
	if len(placeholders)%2 != 0 {
		placeholders = placeholders[:len(placeholders)-1]
	}

	return strings.NewReplacer(placeholders...).Replace(msg)
}
