package main

import "strings"

const (
	loginCommand        command = "login"
	steamIDCommand      command = "steamid"
	gamesCommand        command = "games"
	accountsCommand     command = "accounts"
	initSettingsCommand command = "init-settings"
)

type command string

func (o command) string() string {
	return string(o)
}

func commandsString() string {
	return "'" + strings.Join(commands(), "', '") + "'"
}

func commands() []string {
	return []string{
		loginCommand.string(),
		steamIDCommand.string(),
		gamesCommand.string(),
		accountsCommand.string(),
		initSettingsCommand.string(),
	}
}

func isCommand(s string) bool {
	for _, c := range commands() {
		if c == s {
			return true
		}
	}

	return false
}
