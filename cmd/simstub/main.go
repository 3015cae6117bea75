// simstub is a scripted stand-in for the battle simulator: it accepts any
// login, serves a canned target list, and drives a raid with sparse
// snapshots on a fixed cadence. It does no combat resolution; destruction
// climbs on a script plus a bonus per deployment.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"stormkeep/shared/game/types"
	"stormkeep/shared/protocol"
)

var jwtSecret = []byte("simstub-dev-secret")

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Version  string `json:"version"`
}

type loginResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func mintToken(user string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func userFromToken(tok string) (string, bool) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, _ := claims["sub"].(string)
	return sub, sub != ""
}

// client is one connected player; writes are serialized through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	name string

	raidMu sync.Mutex
	raid   *raid
}

func (c *client) send(typ string, v interface{}) {
	data, _ := json.Marshal(v)
	env := protocol.MsgEnvelope{Type: typ, Data: data}
	b, _ := json.Marshal(env)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Printf("SIM: write: %v", err)
	}
}

// raid is the scripted engagement state.
type raid struct {
	id        int64
	remaining map[string]int
	seconds   int
	scoutLeft int
	destr     float64
	stars     int
	deploys   int
	over      bool
	stop      chan struct{}
}

var targets = []protocol.TargetInfo{
	{ID: "keep-ashvale", Name: "Ashvale Keep", Level: 4, Difficulty: "easy", TravelSec: 5},
	{ID: "keep-gorefang", Name: "Gorefang's Hold", Level: 9, Difficulty: "fair", TravelSec: 12},
	{ID: "keep-duskmoor", Name: "Duskmoor Citadel", Level: 14, Difficulty: "hard", TravelSec: 20},
}

func opponentFor(targetID string) protocol.OpponentSummary {
	for _, t := range targets {
		if t.ID == targetID {
			return protocol.OpponentSummary{Name: t.Name, Level: t.Level}
		}
	}
	return protocol.OpponentSummary{Name: "Unknown Warlord", Level: 1}
}

func defaultLoadout() map[string]int {
	out := make(map[string]int)
	for _, d := range types.Catalog() {
		switch d.Class {
		case "spell":
			out[d.Name] = 1
		default:
			out[d.Name] = 3
		}
	}
	return out
}

func (c *client) beginRaid(m protocol.BeginRaid) {
	c.raidMu.Lock()
	defer c.raidMu.Unlock()
	if c.raid != nil && !c.raid.over {
		c.send("ErrorMsg", protocol.ErrorMsg{Message: "raid already in progress"})
		return
	}

	r := &raid{
		id:        protocol.NewID(),
		remaining: defaultLoadout(),
		seconds:   protocol.ActiveSeconds,
		scoutLeft: protocol.ScoutSeconds,
		stop:      make(chan struct{}),
	}
	c.raid = r

	c.send("RaidStart", protocol.RaidStart{
		SessionID:     r.id,
		Opponent:      opponentFor(m.TargetID),
		ScoutSeconds:  r.scoutLeft,
		ActiveSeconds: r.seconds,
		Loadout:       r.remaining,
	})
	log.Printf("SIM: %s raids %s (session %d)", c.name, m.TargetID, r.id)
	go c.runRaid(r)
}

func starsFor(destr float64) int {
	switch {
	case destr >= 100:
		return 3
	case destr >= 75:
		return 2
	case destr >= 50:
		return 1
	default:
		return 0
	}
}

// runRaid pushes one sparse snapshot per tick. Stars are resent every tick
// on purpose; the client is expected to dedupe celebrations.
func (c *client) runRaid(r *raid) {
	tick := time.NewTicker(protocol.SnapshotIntervalMs * time.Millisecond)
	defer tick.Stop()

	phase := "scout"
	for {
		select {
		case <-r.stop:
			return
		case <-tick.C:
		}

		c.raidMu.Lock()
		if r.over {
			c.raidMu.Unlock()
			return
		}

		snap := protocol.RaidSnapshot{SessionID: r.id}

		if phase == "scout" {
			r.scoutLeft--
			if r.scoutLeft <= 0 {
				phase = "active"
				snap.Phase = strPtr("active")
			}
		} else {
			r.seconds--
			sec := r.seconds
			snap.RemainingSeconds = &sec

			// scripted siege progress, only while troops are on the field
			if r.deploys > 0 {
				r.destr += 1.5 + float64(r.deploys)*0.8 + rand.Float64()
				if r.destr > 100 {
					r.destr = 100
				}
				d := r.destr
				snap.DestructionPercent = &d

				st := starsFor(r.destr)
				if st > r.stars {
					r.stars = st
				}
				stars := r.stars
				snap.StarsEarned = &stars
			}
		}

		done := r.destr >= 100 || (phase == "active" && r.seconds <= 0)
		if done {
			r.over = true
		}
		id, stars, destr, deploys := r.id, r.stars, r.destr, r.deploys
		c.raidMu.Unlock()

		c.send("RaidSnapshot", snap)

		if done {
			if deploys == 0 && stars == 0 {
				// nobody fought; clean the raid up instead of scoring it
				c.send("ForcedReturn", protocol.ForcedReturn{SessionID: id})
				log.Printf("SIM: session %d forced return (inactive)", id)
				return
			}
			c.send("RaidOver", protocol.RaidOver{
				SessionID:          id,
				Victory:            stars > 0,
				StarsEarned:        stars,
				DestructionPercent: destr,
				Reward:             protocol.RewardSummary{Gold: 200 + stars*400, XP: 25 + stars*40},
			})
			log.Printf("SIM: session %d over (stars=%d destr=%.0f%%)", id, stars, destr)
			return
		}
	}
}

func (c *client) handleDeploy(m protocol.DeployAt) {
	c.raidMu.Lock()
	defer c.raidMu.Unlock()
	r := c.raid
	if r == nil || r.over || m.SessionID != r.id {
		return
	}
	if _, known := types.ByName(m.Deployable); !known {
		log.Printf("SIM: session %d deploy of unknown type %q", r.id, m.Deployable)
		return
	}
	n, ok := r.remaining[m.Deployable]
	if !ok || n <= 0 {
		return // silent reject, the client is optimistic
	}
	r.remaining[m.Deployable] = n - 1
	r.deploys++

	counts := make(map[string]int, len(r.remaining))
	for k, v := range r.remaining {
		counts[k] = v
	}
	c.send("RaidSnapshot", protocol.RaidSnapshot{
		SessionID:            r.id,
		RemainingDeployables: counts,
	})
	log.Printf("SIM: session %d deploy %s at (%d,%d)", r.id, m.Deployable, m.CellX, m.CellZ)
}

func (c *client) endRaid(sessionID int64, victory bool, sendOver bool) {
	c.raidMu.Lock()
	r := c.raid
	if r == nil || r.over || (sessionID != 0 && sessionID != r.id) {
		c.raidMu.Unlock()
		return
	}
	r.over = true
	close(r.stop)
	id, stars, destr := r.id, r.stars, r.destr
	c.raidMu.Unlock()

	if sendOver {
		c.send("RaidOver", protocol.RaidOver{
			SessionID:          id,
			Victory:            victory,
			StarsEarned:        stars,
			DestructionPercent: destr,
			Reward:             protocol.RewardSummary{Gold: 50, XP: 10},
		})
	}
}

func (c *client) handle(env protocol.MsgEnvelope) {
	switch env.Type {
	case "SetName":
		var m protocol.SetName
		if json.Unmarshal(env.Data, &m) == nil && m.Name != "" {
			c.name = m.Name
		}
	case "GetProfile":
		c.send("Profile", protocol.Profile{
			PlayerID: 1,
			Name:     c.name,
			Trophies: 1340,
		})
	case "ListTargets":
		c.send("Targets", protocol.Targets{Items: targets})
	case "BeginRaid":
		var m protocol.BeginRaid
		if json.Unmarshal(env.Data, &m) == nil {
			c.beginRaid(m)
		}
	case "DeployAt":
		var m protocol.DeployAt
		if json.Unmarshal(env.Data, &m) == nil {
			c.handleDeploy(m)
		}
	case "Surrender":
		var m protocol.Surrender
		if json.Unmarshal(env.Data, &m) == nil {
			c.endRaid(m.SessionID, false, true)
		}
	case "LeaveRaid":
		var m protocol.LeaveRaid
		if json.Unmarshal(env.Data, &m) == nil {
			c.endRaid(m.SessionID, false, false)
		}
	default:
		log.Printf("SIM: unhandled %q from %s", env.Type, c.name)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func wsHandler(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		tok = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	user, ok := userFromToken(tok)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("SIM: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, name: user}
	log.Printf("SIM: %s connected", user)
	defer func() {
		c.endRaid(0, false, false)
		conn.Close()
		log.Printf("SIM: %s disconnected", user)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env protocol.MsgEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("SIM: malformed frame from %s: %v", user, err)
			continue
		}
		c.handle(env)
	}
}

func strPtr(s string) *string { return &s }

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		tok, err := mintToken(req.Username)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(loginResp{Token: tok, Username: req.Username})
	})
	mux.HandleFunc("/ws", wsHandler)

	log.Printf("SIM: listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
