// Package cliconfig persiste a sessão do ratecli no diretório de configuração do usuário.
package cliconfig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"storerating/internal/domain"
)

const (
	dirName    = "storerating"
	fileName   = "config.json"
	dirPerms   = 0700
	filePerms  = 0600
	DefaultURL = "http://localhost:8080"
)

// Config é a sessão salva entre execuções.
type Config struct {
	ServerURL string          `json:"server_url"`
	Token     string          `json:"token"`
	Email     string          `json:"email,omitempty"`
	Role      domain.UserRole `json:"role,omitempty"`
}

// Path devolve o caminho padrão do arquivo de configuração.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Load lê a configuração de p. Arquivo inexistente devolve a configuração padrão.
func Load(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{ServerURL: DefaultURL}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultURL
	}
	return &cfg, nil
}

// Save grava a configuração em p, criando o diretório se preciso.
func Save(p string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(p), dirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, filePerms)
}

// Clear remove o arquivo de configuração.
func Clear(p string) error {
	err := os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// HasToken informa se há sessão ativa.
func (c *Config) HasToken() bool {
	return c.Token != ""
}

// Logout descarta os dados da sessão e mantém o servidor.
func (c *Config) Logout() {
	c.Token = ""
	c.Email = ""
	c.Role = ""
}
