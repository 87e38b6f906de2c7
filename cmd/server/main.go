package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"sidegame-server/internal/config"
	"sidegame-server/internal/mux"
	"sidegame-server/pkg/playable/poker"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/room"
	"sidegame-server/pkg/room/gamefactory"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	secret := cfg.Secret
	if secret == "" {
		secret = uuid.New().String()
		logrus.Warn("no secret configured; deals cannot be replayed across restarts")
	}

	rulesRegistry, err := rules.NewRegistry(rules.Holdem(), rules.Omaha(), rules.Squidz(poker.DefaultOptions().Bounty))
	if err != nil {
		logrus.WithError(err).Fatal("could not build rules registry")
	}

	factories := gamefactory.DefaultRegistry(rulesRegistry)

	pitBoss := room.NewPitBoss(secret, factories,
		room.WithStartGameDelay(time.Duration(cfg.StartGameDelay)*time.Second),
		room.WithIdleAfter(time.Duration(cfg.IdleTimeout)*time.Second))
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss, room.NewTables(), factories))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
