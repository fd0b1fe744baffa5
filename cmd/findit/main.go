// Command findit is the terminal client for a FindIt server: browse and
// search lost/found reports, report items, and reveal contact details.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/finditapp/findit/internal/client"
	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/registry"
	"github.com/finditapp/findit/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = cmdAuth(args, "register")
	case "login":
		err = cmdAuth(args, "login")
	case "logout":
		err = cmdLogout(args)
	case "whoami":
		err = cmdWhoami(args)
	case "lost":
		err = cmdBrowse(args, model.TypeLost)
	case "found":
		err = cmdBrowse(args, model.TypeFound)
	case "report":
		err = cmdReport(args)
	case "contact":
		err = cmdContact(args)
	case "mine":
		err = cmdMine(args)
	case "resolve":
		err = cmdResolve(args)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stdout, `Usage: findit <command> [flags]

Commands:
  register   create an account and sign in
  login      sign in
  logout     sign out
  whoami     show the current session
  lost       browse lost item reports
  found      browse found item reports
  report     report a lost or found item
  contact    show a report's contact information
  mine       list your own reports
  resolve    mark one of your reports as resolved

Run 'findit <command> -h' for command flags. All commands accept
-server <url> (default: http://localhost:8080).
`)
}

// newFlagSet creates a flag set with the shared -server flag.
func newFlagSet(name string, server *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(server, "server", "http://localhost:8080", "server base URL")
	return fs
}

// newClient builds the API client with the token persisted under the user
// config directory.
func newClient(server string) *client.Client {
	tokenPath := ""
	if dir, err := os.UserConfigDir(); err == nil {
		tokenPath = filepath.Join(dir, "findit", "token")
	}
	return client.New(server, tokenPath)
}

func cmdAuth(args []string, action string) error {
	var server, email, password string
	fs := newFlagSet(action, &server)
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	fs.Parse(args)

	if email == "" || password == "" {
		return fmt.Errorf("-email and -password are required")
	}

	ctx := context.Background()
	c := newClient(server)
	tracker := session.NewTracker(ctx, c)
	defer tracker.Close()

	var err error
	if action == "register" {
		_, err = c.Register(ctx, email, password)
	} else {
		_, err = c.Login(ctx, email, password)
	}
	if err != nil {
		return err
	}

	// The tracker observed the sign-in through the session feed.
	fmt.Printf("Signed in as %s\n", tracker.Identity().Email)
	return nil
}

func cmdLogout(args []string) error {
	var server string
	fs := newFlagSet("logout", &server)
	fs.Parse(args)

	ctx := context.Background()
	tracker := session.NewTracker(ctx, newClient(server))
	defer tracker.Close()

	if tracker.Identity().IsAnonymous() {
		fmt.Println("Not signed in")
		return nil
	}
	if err := tracker.SignOut(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func cmdWhoami(args []string) error {
	var server string
	fs := newFlagSet("whoami", &server)
	fs.Parse(args)

	tracker := session.NewTracker(context.Background(), newClient(server))
	defer tracker.Close()

	id := tracker.Identity()
	if id.IsAnonymous() {
		fmt.Println("Not signed in")
	} else {
		fmt.Printf("Signed in as %s (%s)\n", id.Email, id.UserID)
	}
	return nil
}

func cmdBrowse(args []string, itemType string) error {
	var server, query, category string
	fs := newFlagSet(itemType, &server)
	fs.StringVar(&query, "q", "", "search term (title, description, or location)")
	fs.StringVar(&category, "category", registry.CategoryAll, "category filter")
	fs.Parse(args)

	c := newClient(server)
	items, err := c.ListByType(context.Background(), itemType, model.StatusActive)
	if err != nil {
		return err
	}

	// Filtering is local, so narrowing a search needs no new fetch.
	items = registry.Filter(items, registry.FilterSpec{SearchTerm: query, Category: category})
	if len(items) == 0 {
		fmt.Printf("No %s items found\n", itemType)
		return nil
	}
	printItems(items)
	return nil
}

func cmdReport(args []string) error {
	var server string
	var draft registry.Draft
	fs := newFlagSet("report", &server)
	fs.StringVar(&draft.Type, "type", "", "report type: lost or found")
	fs.StringVar(&draft.Title, "title", "", "short item title")
	fs.StringVar(&draft.Description, "desc", "", "detailed description")
	fs.StringVar(&draft.Category, "category", "", "item category")
	fs.StringVar(&draft.Location, "location", "", "where it was lost or found")
	fs.StringVar(&draft.DateOccurred, "date", "", "date (YYYY-MM-DD, default today)")
	fs.StringVar(&draft.ContactInfo, "contact", "", "email or phone number")
	fs.StringVar(&draft.ImageURL, "image", "", "image URL")
	fs.Parse(args)

	ctx := context.Background()
	c := newClient(server)
	tracker := session.NewTracker(ctx, c)
	defer tracker.Close()

	pipeline := registry.Pipeline{Repo: c}
	item, err := pipeline.Submit(ctx, draft, tracker.Identity())
	if err != nil {
		return err
	}

	fmt.Printf("Reported %q (%s)\n", item.Title, item.ID)
	return nil
}

func cmdContact(args []string) error {
	var server string
	fs := newFlagSet("contact", &server)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: findit contact <item-id>")
	}

	title, contactInfo, err := newClient(server).Contact(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Item: %s\nContact: %s\n", title, contactInfo)
	return nil
}

func cmdMine(args []string) error {
	var server string
	fs := newFlagSet("mine", &server)
	fs.Parse(args)

	items, err := newClient(server).Mine(context.Background())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No reports yet")
		return nil
	}
	printItems(items)
	return nil
}

func cmdResolve(args []string) error {
	var server string
	fs := newFlagSet("resolve", &server)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: findit resolve <item-id>")
	}

	item, err := newClient(server).Resolve(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Resolved %q\n", item.Title)
	return nil
}

func printItems(items []model.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tTITLE\tCATEGORY\tLOCATION\tDATE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Type, item.Status, item.Title, item.Category,
			item.Location, item.DateOccurred)
	}
	w.Flush()
}
