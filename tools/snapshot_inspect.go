package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"social-lab/domain/social"
	"social-lab/infrastructure/storage"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	DBPath string `envconfig:"INSPECT_DB"`
	// INSPECT_KIND restricts the post table to one kind: original, comment or endorsement
	Kind    string `envconfig:"INSPECT_KIND"`
	Colours bool   `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}
	if config.DBPath == "" {
		config.DBPath = database.DefaultPath
	}

	dbPath := flag.String("db", config.DBPath, "Path to badger DB")
	kind := flag.String("kind", config.Kind, "Only list posts of this kind")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := storage.NewSnapshotRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	snapshot, err := repository.Load(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	title(config.Colours, fmt.Sprintf("Accounts (next id %d)", snapshot.NextAccountID))
	accounts := newTable([]string{"ID", "Handle", "Description"})
	for _, account := range snapshot.Accounts {
		accounts.Append([]string{strconv.Itoa(int(account.ID)), account.Handle, account.Description})
	}
	accounts.Render()

	title(config.Colours, fmt.Sprintf("Posts (next id %d)", snapshot.NextPostID))
	posts := newTable([]string{"ID", "Kind", "Author", "Target", "Ghost", "Message"})
	for _, post := range snapshot.Posts {
		if *kind != "" && !strings.EqualFold(*kind, post.Kind.String()) {
			continue
		}
		posts.Append([]string{
			strconv.Itoa(int(post.ID)),
			post.Kind.String(),
			post.Author,
			target(post),
			ghost(post),
			post.Message,
		})
	}
	posts.Render()
}

func title(colours bool, text string) {
	header := fmt.Sprintf("\n  ====== %s ======", text)
	if colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func target(post social.Post) string {
	switch {
	case post.Kind == social.Original:
		return "-"
	case post.IsOrphan():
		return "orphan"
	default:
		return strconv.Itoa(int(post.TargetID))
	}
}

// ghost shows which deleted post an orphan belonged to and where its ghost hangs.
func ghost(post social.Post) string {
	if !post.IsOrphan() {
		return "-"
	}
	if post.GhostParent == social.OrphanID {
		return fmt.Sprintf("%d (detached)", post.OrphanedFrom)
	}
	return fmt.Sprintf("%d under %d", post.OrphanedFrom, post.GhostParent)
}
