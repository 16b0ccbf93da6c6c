package menus

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var (
	buttonBackTo = "Back to"
)

type Menuer interface {
	Menu() tgbotapi.ReplyKeyboardMarkup
}

type ApplicationMenu struct {
	Name string
	From string
	prev Menuer
}

func NewApplicationMenu(name, from string, prev Menuer) ApplicationMenu {
	return ApplicationMenu{
		Name: name,
		From: from,
		prev: prev,
	}
}

func (am *ApplicationMenu) ButtonBackTo() string {
	return buttonBackTo + " " + am.From
}

// PrevMenu is the keyboard of the menu this application was opened from.
func (am *ApplicationMenu) PrevMenu() tgbotapi.ReplyKeyboardMarkup {
	return am.prev.Menu()
}
