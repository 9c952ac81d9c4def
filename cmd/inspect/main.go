package main

import (
	"context"
	"dreamweaver/infrastructure/grpc/client"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Prints the live registry of a running host.
func main() {
	addr := flag.String("addr", "localhost:8080", "Host gRPC address")
	timeout := flag.Duration("timeout", 5*time.Second, "Request timeout")
	flag.Parse()

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Unable to reach the host: ", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	participants, err := client.NewHostClient(slog.Default(), conn, 1).ListParticipants(ctx)
	if err != nil {
		log.Fatal("Unable to list participants: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Origin", "Interests", "Status"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	registered := 0
	for _, p := range participants {
		status := color.Red.Render("waiting")
		if p.Registered {
			registered++
			status = color.Green.Render("registered")
		}
		table.Append([]string{string(p.ID), p.DisplayName, p.OriginURL, strings.Join(p.Interests, ", "), status})
	}
	table.Render()
	fmt.Printf("\n%s %d/%d participants connected\n", color.Cyan.Render(*addr), registered, len(participants))
}
