package ai

import "fmt"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Provider interface {
	Generate(messages []Message) (string, error)
}

// NewProvider returns the provider named in configuration.
func NewProvider(name string) (Provider, error) {
	switch name {
	case "pollinations", "":
		return NewPollinationsProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", name)
	}
}
