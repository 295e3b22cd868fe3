package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"shipwatch/internal/app"
	"shipwatch/internal/config"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/pipeline"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliApp := &cli.App{
		Name:  "shipctl",
		Usage: "maintenance and offline analysis for the ship detection server",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create the database schema",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "seed",
						Usage: "insert demo videos and ship profiles into empty tables",
					},
				},
				Action: migrateAction,
			},
			{
				Name:      "detect",
				Usage:     "detect ships and hull numbers in an image",
				ArgsUsage: "<image>",
				Action:    detectAction,
			},
			{
				Name:      "process",
				Usage:     "process a video file or URL and store the results",
				ArgsUsage: "<video>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "video name stored with the record",
					},
				},
				Action: processAction,
			},
		},
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateAction(c *cli.Context) error {
	cfg := config.Load()
	cfg.SeedDemoData = c.Bool("seed")
	log := logger.NewLogger(cfg)
	defer log.Close()

	// sqldb.New tworzy schemat przy otwarciu
	db, err := app.OpenDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	videos, err := sqldb.NewVideoRepository(db).Count()
	if err != nil {
		return err
	}
	profiles, err := sqldb.NewShipProfileRepository(db).Count()
	if err != nil {
		return err
	}

	fmt.Printf("✅ Schema ready (%s)\n", cfg.DBDriver)
	fmt.Printf("📊 Videos: %d, ship profiles: %d\n", videos, profiles)
	return nil
}

func detectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("detect needs exactly one image path", 2)
	}

	cfg := config.Load()
	log := logger.NewLogger(cfg)
	defer log.Close()

	img, err := imaging.Open(c.Args().First(), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	analyzer, closeBackends, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}
	defer closeBackends()

	findings, err := analyzer.AnalyzeFrame(c.Context, img)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		fmt.Println("No ships found")
		return nil
	}

	for _, f := range findings {
		shipID := "-"
		if f.HasShipID {
			shipID = fmt.Sprintf("%s (%.2f)", f.ShipID, f.ShipIDScore)
		}
		fmt.Printf("%d. %s %.2f box=%s ship_id=%s\n",
			f.Index, f.Detection.Label, f.Detection.Score, ai.FormatBox(f.Detection.Box), shipID)
	}
	return nil
}

func processAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("process needs exactly one video path or URL", 2)
	}
	location := c.Args().First()
	name := c.String("name")
	if name == "" {
		name = filepath.Base(location)
	}

	cfg := config.Load()
	log := logger.NewLogger(cfg)
	defer log.Close()

	db, err := app.OpenDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	analyzer, closeBackends, err := newAnalyzer(cfg, log)
	if err != nil {
		return err
	}
	defer closeBackends()

	uploader, err := app.NewUploader(cfg)
	if err != nil {
		return err
	}

	videos := sqldb.NewVideoRepository(db)
	results := sqldb.NewResultRepository(db)

	video := &model.Video{Name: name, URL: location, Status: model.VideoProcessing}
	if _, err := videos.Insert(video); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}

	processor := pipeline.NewVideoProcessor(analyzer, app.OpenVideo, uploader, videos, results, pipeline.VideoOptions{
		FrameDirectory: cfg.FrameDirectory(),
		SampleSeconds:  cfg.SampleSeconds,
		DefaultFPS:     cfg.DefaultFPS,
		MaxFrameWidth:  cfg.MaxFrameWidth,
	}, log)

	encoder := json.NewEncoder(os.Stdout)
	err = processor.Process(c.Context, video, func(event pipeline.Event) {
		encoder.Encode(event)
	})
	if errors.Is(err, context.Canceled) {
		return cli.Exit("interrupted", 130)
	}
	return err
}

func newAnalyzer(cfg *config.Config, log *logger.Logger) (*pipeline.Analyzer, func(), error) {
	detector, err := app.NewDetector(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	recognizer, err := app.NewRecognizer(cfg)
	if err != nil {
		detector.Close()
		return nil, nil, err
	}

	closeBackends := func() {
		detector.Close()
		recognizer.Close()
	}
	return pipeline.NewAnalyzer(detector, recognizer, cfg.DetectionThreshold, cfg.OCRThreshold, log), closeBackends, nil
}
