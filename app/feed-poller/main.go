package main

import (
	"context"
	"fmt"
	"github.com/OpenTransitTools/feedarchive/app/feed-poller/poller"
	"github.com/OpenTransitTools/feedarchive/foundation/credentials"
	"github.com/OpenTransitTools/feedarchive/foundation/events"
	"github.com/OpenTransitTools/feedarchive/foundation/httpclient"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	logger "log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "FEED_POLLER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	// values in a .env file only fill variables not already set
	_ = godotenv.Load()

	var cfg struct {
		conf.Version
		Feed struct {
			Url            string        `conf:"default:https://api.at.govt.nz/v2/public/realtime"`
			CredentialPath string        `conf:"default:.credentials/key.conf"`
			DataDir        string        `conf:"default:data"`
			PollLogPath    string        `conf:"default:data/log.log"`
			Interval       time.Duration `conf:"default:20s"`
			RequestTimeout time.Duration `conf:"default:60s"`
		}
		Web struct {
			Address string `conf:"default:0.0.0.0:8090"`
		}
		NATS struct {
			Url string
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Capture the realtime combined feed to disk"
	const prefix = "POLLER"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			printUsage(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	creds, err := credentials.Load(cfg.Feed.CredentialPath)
	if err != nil {
		return err
	}

	pollLog, err := poller.OpenPollLog(cfg.Feed.PollLogPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := pollLog.Close(); err != nil {
			log.Printf("main: error closing poll log: %v", err)
		}
	}()

	// =========================================================================
	// Start NATS

	publisher, err := events.Connect(log, cfg.NATS.Url, "feed-poller")
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}
	defer publisher.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	metrics := poller.NewCollector(cfg.Feed.Interval)
	feedPoller := poller.MakePoller(log,
		httpclient.NewClient(cfg.Feed.RequestTimeout, creds.Headers()),
		poller.Config{
			URL:      cfg.Feed.Url,
			DataDir:  cfg.Feed.DataDir,
			Interval: cfg.Feed.Interval,
		},
		pollLog,
		metrics,
		publisher)

	var wg sync.WaitGroup
	if len(cfg.Web.Address) > 0 {
		wg.Add(1)
		go poller.RunWebService(ctx, log, &wg, feedPoller, cfg.Web.Address)
	}

	err = poller.MakeSupervisor(log, metrics).Run(ctx, feedPoller.Run)

	// stop the web service whether the supervisor gave up or a signal arrived
	cancel()
	wg.Wait()
	return err
}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
}
