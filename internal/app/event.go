package app

import "go.uber.org/zap"

// Wire action names sent by the page script.
const (
	ActionLang          = "lang"
	ActionFilter        = "filter"
	ActionSearchInput   = "search-input"
	ActionSearchSubmit  = "search-submit"
	ActionTab           = "tab"
	ActionTheme         = "theme"
	ActionOpenBot       = "open-bot"
	ActionOpenDev       = "open-dev"
	ActionOpenSettings  = "open-settings"
	ActionCloseModal    = "close-modal"
	ActionToggleDetails = "toggle-details"
)

// Event is one user action.
type Event struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

// Dispatch applies ev and reports whether the action was recognized.
func (c *Controller) Dispatch(ev Event) bool {
	switch ev.Action {
	case ActionLang:
		c.SetLanguage(ev.Value)
	case ActionFilter:
		c.SetFilter(ev.Value)
	case ActionSearchInput:
		c.QueueSearch(ev.Value)
	case ActionSearchSubmit:
		c.SubmitSearch(ev.Value)
	case ActionTab:
		c.SwitchTab(ev.Value)
	case ActionTheme:
		c.SetTheme(ev.Value)
	case ActionOpenBot:
		c.OpenBot(ev.Value)
	case ActionOpenDev:
		c.OpenDevInfo()
	case ActionOpenSettings:
		c.OpenSettings()
	case ActionCloseModal:
		c.CloseModal()
	case ActionToggleDetails:
		c.ToggleDetails()
	default:
		c.logger.Debug("ignoring unknown action", zap.String("action", ev.Action))
		return false
	}
	return true
}
