package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"social-lab/contract"
	"social-lab/domain/social"
	"social-lab/infrastructure/storage"
	"social-lab/internal"
	"social-lab/moderation"
	"social-lab/repositories"
	"social-lab/services"
	"strconv"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

type options struct {
	tree     int
	account  string
	seed     bool
	erase    bool
	readOnly bool
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Platform terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run loads the stored platform, applies the requested actions, prints a summary
// and saves the platform back before leaving.
func run() (int, error) {
	var opts options
	flag.IntVar(&opts.tree, "tree", 0, "Render the comment tree of this post id")
	flag.StringVar(&opts.account, "account", "", "Show this account")
	flag.BoolVar(&opts.seed, "seed", false, "Populate an empty platform with a sample conversation")
	flag.BoolVar(&opts.erase, "erase", false, "Erase the platform before saving")
	flag.BoolVar(&opts.readOnly, "read-only", false, "Do not save on exit")
	flag.Parse()

	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	mask, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, log, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Platform
	var filter contract.IContentFilter
	if words := config.Words(); len(words) > 0 {
		moderator, err := moderation.NewModerator(words, mask, log)
		if err != nil {
			return exitConfig, err
		}
		filter = moderator
	}
	store := storage.NewSnapshotRepository(db, log)
	platform := services.NewPlatformService(log,
		repositories.NewAccountRegistry(social.NewSequence[social.AccountID]()),
		repositories.NewPostGraph(social.NewSequence[social.PostID]()),
		store, filter, config.TreeIndent)

	if err := platform.Load(ctx); err != nil {
		return exitRuntime, fmt.Errorf("loading platform: %w", err)
	}

	// 4. Actions
	if opts.seed && platform.NumberOfAccounts() == 0 {
		if err := seed(platform); err != nil {
			return exitRuntime, fmt.Errorf("seeding platform: %w", err)
		}
	}
	if err := report(os.Stdout, platform, opts); err != nil {
		return exitRuntime, err
	}
	if opts.erase {
		platform.Erase()
	}

	// 5. Save on exit
	if opts.readOnly {
		return exitOK, nil
	}
	if err := platform.Save(ctx); err != nil {
		return exitRuntime, fmt.Errorf("saving platform: %w", err)
	}
	log.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, log *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

func seed(platform services.IPlatformService) error {
	if _, err := platform.CreateAccount("alice", "likes gardening"); err != nil {
		return err
	}
	if _, err := platform.CreateAccount("bob", "hi"); err != nil {
		return err
	}
	root, err := platform.CreatePost("alice", "hello")
	if err != nil {
		return err
	}
	if _, err = platform.EndorsePost("bob", root); err != nil {
		return err
	}
	reply, err := platform.CommentPost("bob", root, "welcome!")
	if err != nil {
		return err
	}
	_, err = platform.CommentPost("alice", reply, "thanks bob")
	return err
}

func report(w io.Writer, platform services.IPlatformService, opts options) error {
	fmt.Fprintln(w, color.New(color.BgBlack, color.FgGreen).Render("  ====== Platform ======"))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk([][]string{
		{"Accounts", strconv.Itoa(platform.NumberOfAccounts())},
		{"Original posts", strconv.Itoa(platform.TotalOriginalPosts())},
		{"Comments", strconv.Itoa(platform.TotalCommentPosts())},
		{"Endorsements", strconv.Itoa(platform.TotalEndorsementPosts())},
		{"Most endorsed post", strconv.Itoa(int(platform.MostEndorsedPost()))},
		{"Most endorsed account", strconv.Itoa(int(platform.MostEndorsedAccount()))},
	})
	table.Render()

	if opts.account != "" {
		view, err := platform.ShowAccount(opts.account)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", view)
	}
	if opts.tree > 0 {
		tree, err := platform.ShowPostTree(social.PostID(opts.tree))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s", tree)
	}
	return nil
}
