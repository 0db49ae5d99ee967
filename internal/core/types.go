package core

const (
	BotName       = "VerdictBot"
	BotVersion    = "0.1.0"
	BotUserAgent  = "VerdictBot/0.1"
	RepositoryURL = "https://github.com/sandevgo/verdictbot"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
