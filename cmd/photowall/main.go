package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lbuchert/photowall/internal/notify"
	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/provider"
	"github.com/lbuchert/photowall/internal/session"
	"github.com/lbuchert/photowall/internal/tui"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "demo":
			runDemo()
			return
		case "login":
			if len(os.Args) < 4 {
				fmt.Fprintf(os.Stderr, "Usage: photowall login <name> <token>\n")
				os.Exit(1)
			}
			runLogin(os.Args[2], os.Args[3])
			return
		case "logout":
			runLogout()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `photowall - terminal photo gallery

Usage:
  photowall                   Open the photo wall
  photowall demo              Seed a local demo library and open it
  photowall login <name> <t>  Store the session token for manage mode
  photowall logout            Forget the stored session
  photowall help              Show this help

Server:
  Set PHOTOWALL_SERVER to browse a remote gallery (e.g.
  https://gallery.example.com); without it a local SQLite library at
  ~/.config/photowall/library.db is used.

TUI Keybindings:
  Navigation:
    j/k/h/l     Move around the grid
    gg/G        Jump to top/bottom
    Enter       Open photo in viewer

  Wall:
    c           Cycle category
    f           Cycle photographer/location filter
    o           Toggle latest/popular sort
    y           Yank photo URL

  Manage (requires login):
    m           Toggle manage mode
    e           Edit selected photo
    d           Delete selected photo

  Viewer:
    Space       Tap (once: toggle chrome, twice: close)
    h/l         Previous/next photo

  Other:
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/photowall/
`
	fmt.Print(help)
}

// runTUI opens the wall against the configured provider.
func runTUI() {
	sess := loadSession()

	server := os.Getenv("PHOTOWALL_SERVER")
	if server == "" {
		library := openLibrary(sess)
		defer library.Close()
		runApp(library, sess, nil)
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	token := ""
	if sess != nil {
		token = sess.Token
	}
	client := provider.NewClient(server, token, logger)

	// Upload notifications ride a websocket next to the JSON API.
	wsURL := strings.Replace(server, "http", "ws", 1) + "/api/notifications"
	listener := notify.NewListener(wsURL, token, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("notification stream ended", "error", err)
		}
	}()

	runApp(client, sess, listener.Events())
}

// runDemo seeds the local library with sample photos and opens it.
func runDemo() {
	sess := loadSession()
	if sess == nil {
		// The demo should be manageable out of the box.
		sess = &session.Session{Token: "demo", UserName: "demo"}
	}

	library := openLibrary(sess)
	defer library.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := library.InsertPhotos(ctx, demoPhotos(sess.UserName)); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding demo library: %v\n", err)
		os.Exit(1)
	}

	runApp(library, sess, nil)
}

func runApp(prov provider.Provider, sess *session.Session, uploads <-chan photo.Item) {
	app := tui.NewApp(tui.AppParams{
		Provider: prov,
		Session:  sess,
		Uploads:  uploads,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

func runLogin(name, token string) {
	path, err := session.DefaultSessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting session path: %v\n", err)
		os.Exit(1)
	}
	if err := session.Save(path, &session.Session{Token: token, UserName: name}); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving session: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Signed in as %s\n", name)
}

func runLogout() {
	path, err := session.DefaultSessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting session path: %v\n", err)
		os.Exit(1)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error removing session: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Signed out")
}

func loadSession() *session.Session {
	path, err := session.DefaultSessionPath()
	if err != nil {
		return nil
	}
	sess, err := session.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable session: %v\n", err)
		return nil
	}
	return sess
}

func openLibrary(sess *session.Session) *provider.Library {
	path, err := provider.DefaultLibraryPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting library path: %v\n", err)
		os.Exit(1)
	}

	owner := "me"
	if sess != nil && sess.UserName != "" {
		owner = sess.UserName
	}

	library, err := provider.NewLibrary(path, owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	return library
}

// demoPhotos builds a small spread of sample photos across categories.
func demoPhotos(owner string) []photo.Item {
	samples := []struct {
		title    string
		category photo.Category
		location string
		likes    int
		daysAgo  int
	}{
		{"Alley at Dusk", photo.CategoryStreet, "Lisbon", 42, 1},
		{"Morning Commute", photo.CategoryStreet, "Tokyo", 17, 3},
		{"Granite Ridge", photo.CategoryLandscape, "Dolomites", 88, 2},
		{"Low Tide", photo.CategoryLandscape, "", 31, 9},
		{"Window Light", photo.CategoryPortrait, "", 54, 4},
		{"Stairwell", photo.CategoryArchitecture, "Rotterdam", 12, 6},
		{"Moss Detail", photo.CategoryNature, "Hoh Rainforest", 7, 12},
		{"Night Market", photo.CategoryOther, "Taipei", 23, 5},
	}

	items := make([]photo.Item, 0, len(samples))
	for i, s := range samples {
		item := photo.NewItem(photo.NewItemParams{
			Title:         s.title,
			OwnerName:     owner,
			Category:      s.category,
			LocationLabel: s.location,
			IsPublic:      true,
		})
		item.LikeCount = s.likes
		item.UploadedAt = time.Now().AddDate(0, 0, -s.daysAgo)
		item.ThumbnailURL = fmt.Sprintf("https://picsum.photos/seed/%d/300/200", i)
		item.DisplayURL = fmt.Sprintf("https://picsum.photos/seed/%d/1200/800", i)
		items = append(items, item)
	}
	return items
}
