package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/OpenTransitTools/feedarchive/app/daily-compactor/compactor"
	"github.com/OpenTransitTools/feedarchive/business/data/dataset"
	"github.com/OpenTransitTools/feedarchive/foundation/database"
	"github.com/OpenTransitTools/feedarchive/foundation/events"
	"github.com/OpenTransitTools/feedarchive/foundation/objectstore"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "DAILY_COMPACTOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		Args conf.Args
		Data struct {
			Dir           string `conf:"default:data"`
			ProcessedDir  string `conf:"default:processed"`
			TimeZone      string `conf:"default:Local"`
			ProgressEvery int    `conf:"default:500"`
		}
		OSS struct {
			Endpoint  string `conf:"default:oss-ap-southeast-2"`
			Bucket    string `conf:"default:at-network-archive"`
			AccessKey string `conf:"noprint"`
			SecretKey string `conf:"noprint"`
			Internal  bool   `conf:"default:false"`
		}
		DB struct {
			Enabled    bool   `conf:"default:false"`
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		NATS struct {
			Url string
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Compact a day of realtime snapshots into datasets and upload them"

	const prefix = "COMPACTOR"

	usage, err := conf.Usage(prefix, &cfg)
	if err != nil {
		return fmt.Errorf("generating config usage: %w", err)
	}

	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
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

	location, err := time.LoadLocation(cfg.Data.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time zone %s: %w", cfg.Data.TimeZone, err)
	}
	serviceDate, err := compactor.ParseServiceDate(cfg.Args, location)
	if err != nil {
		printUsage(usage)
		return err
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

	store, err := objectstore.NewOSSStore(objectstore.OSSConfig{
		Endpoint:  cfg.OSS.Endpoint,
		Bucket:    cfg.OSS.Bucket,
		AccessKey: cfg.OSS.AccessKey,
		SecretKey: cfg.OSS.SecretKey,
		Internal:  cfg.OSS.Internal,
	})
	if err != nil {
		return fmt.Errorf("configuring object store: %w", err)
	}

	// =========================================================================
	// Start Database

	var ledger *compactor.DBLedger
	if cfg.DB.Enabled {
		log.Println("main: Initializing database support")
		db, err := database.Open(database.Config{
			User:       cfg.DB.User,
			Password:   cfg.DB.Password,
			Host:       cfg.DB.Host,
			Name:       cfg.DB.Name,
			DisableTLS: cfg.DB.DisableTLS,
		})
		if err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		defer func() {
			log.Printf("main: Database Stopping : %s", cfg.DB.Host)
			if err := db.Close(); err != nil {
				log.Printf("main: error closing database: %v", err)
			}
		}()
		if err = database.StatusCheck(context.Background(), db, 5*time.Second); err != nil {
			return fmt.Errorf("checking db status: %w", err)
		}
		if err = dataset.EnsureSchema(db); err != nil {
			return fmt.Errorf("creating ledger table: %w", err)
		}
		ledger = compactor.MakeDBLedger(db)
		previous, err := ledger.PreviousRun(dataset.FormatDate(serviceDate))
		if err != nil {
			return fmt.Errorf("reading ledger: %w", err)
		}
		if previous != nil {
			log.Printf("main: %s was already compacted by run %s, its uploaded datasets will be replaced",
				dataset.FormatDate(serviceDate), previous.RunId)
		}
	}

	// =========================================================================
	// Start NATS

	publisher, err := events.Connect(log, cfg.NATS.Url, "daily-compactor")
	if err != nil {
		return fmt.Errorf("connecting to nats: %w", err)
	}
	defer publisher.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := compactor.MakeCompactor(log,
		compactor.Config{
			DataDir:       cfg.Data.Dir,
			ProcessedDir:  cfg.Data.ProcessedDir,
			ProgressEvery: cfg.Data.ProgressEvery,
		},
		store,
		ledgerOrNil(ledger),
		publisher)

	_, err = c.Compact(ctx, serviceDate)
	var uploadErr *compactor.UploadError
	if errors.As(err, &uploadErr) {
		log.Printf("main: upload failed, local files for %s were kept", dataset.FormatDate(serviceDate))
	}
	return err
}

// ledgerOrNil avoids handing the compactor a non-nil interface holding a nil *DBLedger
func ledgerOrNil(ledger *compactor.DBLedger) compactor.SummaryLedger {
	if ledger == nil {
		return nil
	}
	return ledger
}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
	fmt.Println("arguments:")
	fmt.Println("<year> <month> <day>: service date to compact, snapshots after its midnight up to and including the next")
}
