package ai

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// defaultPersona is used when no persona file exists for a chat and no
// default file is present either.
const defaultPersona = "Você é a Amanda, uma assistente simpática e " +
	"bem-humorada que conversa em grupos de WhatsApp. Responda de forma " +
	"curta, natural e em português, a menos que perguntem em outro idioma."

// PersonaStore resolves the system instruction for each chat from
// sys_inst.<chat>.config files in a directory, with a shared default.
type PersonaStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string
}

// NewPersonaStore creates a store over the given directory. The
// directory may not exist; every lookup then falls back to the default.
func NewPersonaStore(dir string) *PersonaStore {
	return &PersonaStore{dir: dir, cache: make(map[string]string)}
}

// For returns the persona text for a chat: its own file if present,
// otherwise the default file, otherwise the built-in persona.
func (p *PersonaStore) For(chatID string) string {
	key := sanitize(chatID)

	p.mu.RLock()
	if text, ok := p.cache[key]; ok {
		p.mu.RUnlock()
		return text
	}
	p.mu.RUnlock()

	text := p.load(key)

	p.mu.Lock()
	p.cache[key] = text
	p.mu.Unlock()
	return text
}

// Reload clears the cache so edited persona files take effect.
func (p *PersonaStore) Reload() {
	p.mu.Lock()
	p.cache = make(map[string]string)
	p.mu.Unlock()
}

func (p *PersonaStore) load(key string) string {
	for _, name := range []string{"sys_inst." + key + ".config", "sys_inst.default.config"} {
		data, err := os.ReadFile(filepath.Join(p.dir, name))
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("WARN: Failed to read persona file %s: %v", name, err)
			}
			continue
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text
		}
	}
	return defaultPersona
}

// sanitize keeps persona file names safe regardless of what the chat
// ID contains.
func sanitize(chatID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, chatID)
}
