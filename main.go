package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/kionell/osu-standard-stable/osuapi"
)

var (
	app       = kingpin.New("stdpp", "osu!standard beatmap conversion and performance calculator.")
	configDir = app.Flag("config", "Directory containing stdpp.json").Default(".").Short('c').String()

	convertCmd     = app.Command("convert", "Convert .osu files and expand their nested objects.")
	convertFiles   = convertCmd.Arg("files", ".osu files to convert").Required().ExistingFiles()
	convertObjects = convertCmd.Flag("objects", "List every object and its nested objects").Bool()

	ppCmd        = app.Command("pp", "Calculate the performance of a score on a beatmap.")
	ppFile       = ppCmd.Arg("file", ".osu file").Required().ExistingFile()
	ppAttributes = ppCmd.Flag("attributes", "JSON file with difficulty attributes").Short('a').ExistingFile()
	ppBeatmapID  = ppCmd.Flag("beatmap-id", "Fetch difficulty attributes of this beatmap from the osu! API").Short('b').Int()
	ppMods       = ppCmd.Flag("mods", "Mod acronyms, e.g. HDDT").Short('m').Default("NM").String()
	ppCombo      = ppCmd.Flag("combo", "Maximum combo").Default("-1").Int()
	ppGreat      = ppCmd.Flag("n300", "Number of 300s").Default("-1").Int()
	ppOk         = ppCmd.Flag("n100", "Number of 100s").Default("-1").Int()
	ppMeh        = ppCmd.Flag("n50", "Number of 50s").Default("-1").Int()
	ppMiss       = ppCmd.Flag("misses", "Number of misses").Default("0").Int()
	ppAccuracy   = ppCmd.Flag("acc", "Accuracy in percent").Default("-1").Float64()
	ppSave       = ppCmd.Flag("save", "Store the result in the history database").Bool()

	fetchCmd = app.Command("fetch", "Download a beatmap into the maps directory.")
	fetchID  = fetchCmd.Arg("beatmap-id", "Beatmap id").Required().Int()

	recalcCmd   = app.Command("recalc", "Recalculate a user's best scores.")
	recalcUser  = recalcCmd.Arg("user-id", "User id").Required().Int()
	recalcLimit = recalcCmd.Flag("limit", "Number of best scores").Default("100").Int()

	historyCmd   = app.Command("history", "List stored performance results.")
	historyLimit = historyCmd.Flag("limit", "Number of results").Default("20").Int()
)

func main() {
	app.Version("0.1.0")
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := loadConfig(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := newLogger(viper.GetString("logLevel"), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, cmd); err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("failed")
	}
}

func run(ctx context.Context, log zerolog.Logger, cmd string) error {
	switch cmd {
	case convertCmd.FullCommand():
		return runConvert(os.Stdout, log, *convertFiles, *convertObjects)

	case ppCmd.FullCommand():
		opts := ppOptions{
			File:       *ppFile,
			Attributes: *ppAttributes,
			BeatmapID:  *ppBeatmapID,
			Save:       *ppSave,
			Score: scoreFlags{
				Mods:     *ppMods,
				Combo:    *ppCombo,
				Great:    *ppGreat,
				Ok:       *ppOk,
				Meh:      *ppMeh,
				Miss:     *ppMiss,
				Accuracy: *ppAccuracy,
			},
		}

		var api attributeSource
		if opts.Attributes == "" && opts.BeatmapID > 0 {
			client := osuapi.New(apiConfig(), log)
			defer client.Close()
			api = client
		}

		return runPP(ctx, os.Stdout, log, opts, api)

	case fetchCmd.FullCommand():
		client := osuapi.New(apiConfig(), log)
		defer client.Close()

		path, err := fetchBeatmap(ctx, log, client, viper.GetString("mapsDir"), *fetchID)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case recalcCmd.FullCommand():
		client := osuapi.New(apiConfig(), log)
		defer client.Close()

		plays, err := recalculateUserScores(ctx, log, client, *recalcUser, *recalcLimit)
		if err != nil {
			return err
		}
		renderPlays(os.Stdout, plays)
		return nil

	case historyCmd.FullCommand():
		return runHistory(ctx, os.Stdout, *historyLimit)
	}

	return fmt.Errorf("unknown command %q", cmd)
}
