package main

import (
	"context"
	"dreamweaver/infrastructure/storage"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

// Dumps the catalogue stored by the host, read-only.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := storage.NewCatalogueRepository(db, slog.Default())
	participants, err := repository.GetParticipants(context.Background())
	if err != nil {
		log.Fatal("Error while reading the catalogue: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "ID", "Name", "Publisher", "Origin", "Interests"})
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

	for i, p := range participants {
		table.Append([]string{
			fmt.Sprint(i + 1),
			string(p.ID),
			p.DisplayName,
			p.Publisher,
			p.OriginURL,
			strings.Join(p.Interests, ", "),
		})
	}
	table.Render()
	fmt.Printf("\n%d participants in %s\n", len(participants), *dbPath)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}
