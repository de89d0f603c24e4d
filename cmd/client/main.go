package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/bidding"
	"github.com/example/mediride/internal/config"
	"github.com/example/mediride/internal/models"
	"github.com/example/mediride/internal/session"
)

// Terminal client for the MEDIRIDE backend, mostly for operators and
// local testing. It keeps one cached session per role on disk; an
// expired access token is refreshed once behind the scenes, and when
// that fails the session is dropped and the user has to log in again.

func usage() {
	fmt.Fprintln(os.Stderr, `usage: client <command> [flags]

commands:
  login     -role <patient|driver|admin> -email <email> -password <password>
  logout    -role <role>
  bookings  -role <role> [-status <status>]
  bids      -role <role> -booking <id>
  bid       -role <role> -booking <id> -amount <taka>
  accept    -role <role> -bid <id>
  approve   -role <role> -bid <id> -booking <id>`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	store := session.NewFileStore(cfg.SessionFile)
	ctx := context.Background()

	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	role := fs.String("role", "patient", "which cached session to act as")
	email := fs.String("email", "", "account email (login)")
	password := fs.String("password", "", "account password (login)")
	booking := fs.String("booking", "", "booking id")
	bid := fs.String("bid", "", "bid id")
	amount := fs.Float64("amount", 0, "bid amount in taka")
	status := fs.String("status", "", "optional status filter")
	fs.Parse(os.Args[2:])

	r := models.Role(*role)
	if !r.Valid() {
		log.Fatalf("unknown role %q", *role)
	}

	client := apiclient.New(cfg.BackendURL, cfg.BackendTimeout)
	client.Tokens = session.RoleTokens{Store: store, Role: r}

	switch os.Args[1] {
	case "login":
		sess, err := client.Login(ctx, apiclient.LoginRequest{Email: *email, Password: *password})
		if err != nil {
			fail(err)
		}
		if err := store.Save(r, *sess); err != nil {
			log.Fatalf("saving session: %v", err)
		}
		log.Printf("logged in as %s (%s)", sess.Profile.FullName, r)
	case "logout":
		if err := store.Clear(r); err != nil {
			log.Fatalf("clearing session: %v", err)
		}
		log.Printf("logged out %s", r)
	case "bookings":
		bookings, err := client.ListBookings(ctx, *status)
		if err != nil {
			fail(err)
		}
		printJSON(bookings)
	case "bids":
		bids, err := client.BookingBids(ctx, *booking)
		if err != nil {
			fail(err)
		}
		printJSON(bidding.RankedView(bids))
	case "bid":
		placed, err := client.PlaceBid(ctx, apiclient.PlaceBidRequest{BookingID: *booking, Amount: *amount})
		if err != nil {
			fail(err)
		}
		printJSON(placed)
	case "accept":
		if err := client.AcceptBid(ctx, *bid); err != nil {
			fail(err)
		}
		log.Printf("bid %s accepted", *bid)
	case "approve":
		if err := client.ApproveBid(ctx, *bid, *booking); err != nil {
			fail(err)
		}
		log.Printf("bid %s approved for booking %s", *bid, *booking)
	default:
		usage()
	}
}

func fail(err error) {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		log.Fatal("session expired, please log in again")
	}
	log.Fatal(err)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
}
