package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"collab-hub/domain"
)

// Dumps the durable outbox (or message history) to stdout so the
// contents of a hub datastore can be checked without a live server.
func main() {
	dbPath := flag.String("db", "/tmp/collab-hub", "Path to badger DB")
	prefix := flag.String("prefix", "ntf:", "Prefix to scan (ntf: or msg:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Owner", "Type", "Created", "Detail", "State"})
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

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				row, err := toRow(rawKey, v)
				if err != nil {
					// Log the bad record and keep scanning instead of stopping the dump
					fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func toRow(key string, value []byte) ([]string, error) {
	if strings.HasPrefix(key, "msg:") {
		var message domain.Message
		if err := json.Unmarshal(value, &message); err != nil {
			return nil, err
		}
		detail := message.Content
		if len(detail) > 40 {
			detail = detail[:40] + "..."
		}
		state := "original"
		if message.EditedAt != nil {
			state = "edited"
		}
		return []string{
			key,
			fmt.Sprintf("channel_%d", message.ChannelID),
			"message",
			message.CreatedAt.Format("15:04:05"),
			detail,
			state,
		}, nil
	}

	var notification domain.Notification
	if err := json.Unmarshal(value, &notification); err != nil {
		return nil, err
	}
	detail := notification.Title
	if len(detail) > 40 {
		detail = detail[:40] + "..."
	}
	state := color.Red.Sprint("unread")
	if notification.IsRead {
		state = color.Green.Sprint("read")
	}
	// First 8 characters of the owner id keep the table readable
	owner := notification.UserID
	if len(owner) > 8 {
		owner = owner[:8]
	}
	return []string{
		key,
		owner,
		notification.Type,
		notification.CreatedAt.Format("15:04:05"),
		detail,
		state,
	}, nil
}
