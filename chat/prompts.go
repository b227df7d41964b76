package chat

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yml
var promptFS embed.FS

// Prompt loads the SYSTEM_PROMPT of the named embedded prompt file
// (prompts/<name>.yml).
func Prompt(name string) (string, error) {
	raw, err := promptFS.ReadFile("prompts/" + name + ".yml")
	if err != nil {
		return "", fmt.Errorf("chat: read prompt %q: %w", name, err)
	}

	var doc struct {
		SystemPrompt string `yaml:"SYSTEM_PROMPT"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("chat: parse prompt %q: %w", name, err)
	}
	if doc.SystemPrompt == "" {
		return "", fmt.Errorf("chat: prompt %q has no SYSTEM_PROMPT key", name)
	}
	return doc.SystemPrompt, nil
}

// MustPrompt is Prompt for the embedded defaults, panicking on failure.
// The files are compiled into the binary, so a failure is a build defect.
func MustPrompt(name string) string {
	p, err := Prompt(name)
	if err != nil {
		panic(err)
	}
	return p
}
