package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stormkeep/client/internal/netcfg"
	"stormkeep/shared/protocol"
)

type RegisterReq struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}
type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Version  string `json:"version"`
}
type LoginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// In-memory session token for the current run
var sessionToken string

func Register(username, password string) error {
	req := RegisterReq{Username: username, Password: password, PasswordConfirm: password}
	b, _ := json.Marshal(&req)
	resp, err := http.Post(netcfg.APIBase+"/api/register", "application/json", bytes.NewReader(b))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return errors.New("register failed")
	}
	return nil
}

func Login(username, password string) (string, error) {
	req := LoginReq{Username: username, Password: password, Version: protocol.GameVersion}
	b, _ := json.Marshal(&req)
	resp, err := http.Post(netcfg.APIBase+"/api/login", "application/json", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		if resp.StatusCode == 426 {
			return "", errors.New("version mismatch: please update your game")
		}
		return "", errors.New("invalid credentials")
	}
	var out LoginResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	SaveToken(out.Token)
	return out.Token, nil
}

func tokenPath() string { return ConfigPath("token.json") }
func userPath() string  { return ConfigPath("username.txt") }

func SaveToken(tok string) error {
	return os.WriteFile(tokenPath(), []byte(strings.TrimSpace(tok)), 0o600)
}

func LoadToken() string {
	if strings.TrimSpace(sessionToken) != "" {
		return strings.TrimSpace(sessionToken)
	}
	b, _ := os.ReadFile(tokenPath())
	return strings.TrimSpace(string(b))
}

func ClearToken() { _ = os.Remove(tokenPath()) }

func SetSessionToken(tok string) {
	sessionToken = strings.TrimSpace(tok)
}

// HasToken reports whether a non-empty token exists.
func HasToken() bool {
	return strings.TrimSpace(LoadToken()) != ""
}

// TokenFresh reports whether the stored token still has at least a minute
// of life. Expiry is read without verifying the signature; the server does
// the real check on connect.
func TokenFresh() bool {
	tok := LoadToken()
	if tok == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) > time.Minute
}

func SaveUsername(u string) error {
	return os.WriteFile(userPath(), []byte(strings.TrimSpace(u)), 0o600)
}

func LoadUsername() string {
	b, _ := os.ReadFile(userPath())
	return strings.TrimSpace(string(b))
}

func ClearUsername() { _ = os.Remove(userPath()) }
