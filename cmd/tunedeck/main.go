// Package main provides the tunedeck command-line client.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/tunedeck/internal/api/connect"
	"github.com/osa030/tunedeck/internal/api/httpapi"
	"github.com/osa030/tunedeck/internal/domain/track"
)

var (
	app    = kingpin.New("tunedeck", "tunedeck playlist client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Admin token for library commands (or set ADMIN_TOKEN env)").Envar("ADMIN_TOKEN").String()

	// playlist commands
	listCmd      = app.Command("list", "List all tracks").Alias("ls")
	currentCmd   = app.Command("current", "Show the current track")
	nextCmd      = app.Command("next", "Advance to the next track")
	prevCmd      = app.Command("prev", "Go back to the previous track")
	selectCmd    = app.Command("select", "Move the cursor to a track")
	selectID     = selectCmd.Arg("track-id", "Track ID").Required().String()
	favoritesCmd = app.Command("favorites", "List favorite tracks")
	favoriteCmd  = app.Command("favorite", "Toggle a track's favorite flag")
	favoriteID   = favoriteCmd.Arg("track-id", "Track ID").Required().String()
	recentCmd    = app.Command("recent", "List recently played tracks")
	recentLimit  = recentCmd.Flag("limit", "Maximum number of tracks (0 = server default)").Short('n').Int()
	playCmd      = app.Command("play", "Record a playback of a track")
	playID       = playCmd.Arg("track-id", "Track ID").Required().String()
	statusCmd    = app.Command("status", "Show playlist status")
	watchCmd     = app.Command("watch", "Stream playlist changes")

	// upload command
	uploadCmd    = app.Command("upload", "Upload an audio file")
	uploadFile   = uploadCmd.Arg("file", "Audio file path").Required().ExistingFile()
	uploadTitle  = uploadCmd.Flag("title", "Title (default: from tags)").String()
	uploadArtist = uploadCmd.Flag("artist", "Artist (default: from tags)").String()

	// library commands (admin token required)
	removeCmd    = app.Command("remove", "Remove a track").Alias("rm")
	removeID     = removeCmd.Arg("track-id", "Track ID").Required().String()
	moveCmd      = app.Command("move", "Move a track to a position")
	moveID       = moveCmd.Arg("track-id", "Track ID").Required().String()
	movePosition = moveCmd.Arg("position", "0-based target position").Required().Int()
	shuffleCmd   = app.Command("shuffle", "Shuffle the playlist")
	sortCmd      = app.Command("sort", "Sort the playlist")
	sortKey      = sortCmd.Arg("key", "Sort key").Required().Enum("title", "date")
	importCmd    = app.Command("import-spotify", "Append the tracks of a Spotify playlist")
	importURL    = importCmd.Arg("playlist-url", "Spotify playlist URL or URI").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	playlist := apiconnect.NewPlaylistClient(http.DefaultClient, *server)
	ctx := context.Background()

	switch command {
	case listCmd.FullCommand():
		list(ctx, playlist)
	case currentCmd.FullCommand():
		printCurrent(call(playlist.GetCurrent(ctx, connect.NewRequest(&apiconnect.Empty{}))))
	case nextCmd.FullCommand():
		printCurrent(call(playlist.Next(ctx, connect.NewRequest(&apiconnect.Empty{}))))
	case prevCmd.FullCommand():
		printCurrent(call(playlist.Previous(ctx, connect.NewRequest(&apiconnect.Empty{}))))
	case selectCmd.FullCommand():
		printCurrent(call(playlist.Select(ctx, connect.NewRequest(&apiconnect.TrackRequest{TrackID: *selectID}))))
	case favoritesCmd.FullCommand():
		printTracks("Favorites", call(playlist.ListFavorites(ctx, connect.NewRequest(&apiconnect.Empty{}))).Tracks, -1)
	case favoriteCmd.FullCommand():
		printResult(call(playlist.ToggleFavorite(ctx, connect.NewRequest(&apiconnect.TrackRequest{TrackID: *favoriteID}))))
	case recentCmd.FullCommand():
		printTracks("Recently played", call(playlist.ListRecent(ctx, connect.NewRequest(&apiconnect.ListRecentRequest{Limit: *recentLimit}))).Tracks, -1)
	case playCmd.FullCommand():
		printResult(call(playlist.MarkPlayed(ctx, connect.NewRequest(&apiconnect.TrackRequest{TrackID: *playID}))))
	case statusCmd.FullCommand():
		status(ctx, playlist)
	case watchCmd.FullCommand():
		watch(ctx, playlist)
	case uploadCmd.FullCommand():
		upload(ctx, *uploadFile, *uploadTitle, *uploadArtist)
	default:
		runLibraryCommand(ctx, command)
	}
}

func runLibraryCommand(ctx context.Context, command string) {
	if *token == "" {
		fmt.Println("Error: admin token is required (use --token or ADMIN_TOKEN env)")
		os.Exit(1)
	}
	library := apiconnect.NewLibraryClient(http.DefaultClient, *server, apiconnect.WithAdminToken(*token))

	switch command {
	case removeCmd.FullCommand():
		printResult(call(library.RemoveTrack(ctx, connect.NewRequest(&apiconnect.TrackRequest{TrackID: *removeID}))))
	case moveCmd.FullCommand():
		printResult(call(library.MoveTrack(ctx, connect.NewRequest(&apiconnect.MoveTrackRequest{TrackID: *moveID, Position: *movePosition}))))
	case shuffleCmd.FullCommand():
		printResult(call(library.Shuffle(ctx, connect.NewRequest(&apiconnect.Empty{}))))
	case sortCmd.FullCommand():
		if *sortKey == "title" {
			printResult(call(library.SortByTitle(ctx, connect.NewRequest(&apiconnect.Empty{}))))
		} else {
			printResult(call(library.SortByDate(ctx, connect.NewRequest(&apiconnect.Empty{}))))
		}
	case importCmd.FullCommand():
		res := call(library.ImportSpotifyPlaylist(ctx, connect.NewRequest(&apiconnect.ImportSpotifyPlaylistRequest{PlaylistURL: *importURL})))
		fmt.Println(res.Message)
		for code, n := range res.Rejected {
			fmt.Printf("  skipped [%s]: %d\n", code, n)
		}
		printTracks("Added", res.Added, -1)
	}
}

// call unwraps a unary response, exiting on error.
func call[T any](resp *connect.Response[T], err error) *T {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return resp.Msg
}

func list(ctx context.Context, client *apiconnect.PlaylistClient) {
	resp := call(client.ListTracks(ctx, connect.NewRequest(&apiconnect.Empty{})))
	printTracks("Playlist", resp.Tracks, resp.CurrentIndex)
}

func status(ctx context.Context, client *apiconnect.PlaylistClient) {
	s := call(client.GetStatus(ctx, connect.NewRequest(&apiconnect.Empty{})))

	fmt.Println("\n=== PLAYLIST STATUS ===")
	fmt.Printf("Tracks: %d\n", s.Size)
	fmt.Printf("Favorites: %d\n", s.Favorites)
	fmt.Printf("Subscribers: %d\n", s.Subscribers)
	fmt.Printf("Spotify import: %v\n", s.SpotifyEnabled)
	if s.Current != nil {
		fmt.Printf("\nNow playing (#%d):\n", s.CurrentIndex+1)
		printTrack(s.Current)
	} else {
		fmt.Println("\nPlaylist is empty")
	}
	fmt.Println()
}

func printTracks(heading string, tracks []track.Record, current int) {
	fmt.Printf("%s (%d):\n", heading, len(tracks))
	for i, t := range tracks {
		marker := "  "
		if i == current {
			marker = "▶ "
		}
		fav := ""
		if t.IsFavorite {
			fav = " ★"
		}
		fmt.Printf("%s%3d. %s - %s%s  [%s]\n", marker, i+1, t.Title, t.Artist, fav, t.ID)
	}
}

func printCurrent(resp *apiconnect.CurrentResponse) {
	if resp.Track == nil {
		fmt.Println("Playlist is empty")
		return
	}
	printTrack(resp.Track)
}

func printTrack(t *track.Record) {
	fmt.Printf("  Track ID: %s\n", t.ID)
	fmt.Printf("  Title: %s\n", t.Title)
	fmt.Printf("  Artist: %s\n", t.Artist)
	fmt.Printf("  Location: %s\n", t.Location)
	fmt.Printf("  Added: %s\n", t.AddedAt)
	fmt.Printf("  Favorite: %v\n", t.IsFavorite)
	fmt.Printf("  Play count: %d\n", t.PlayCount)
	if t.LastPlayed != nil {
		fmt.Printf("  Last played: %s\n", *t.LastPlayed)
	}
}

func printResult(resp *apiconnect.ResultResponse) {
	if resp.Success {
		fmt.Printf("Success: %s\n", resp.Message)
	} else {
		fmt.Printf("Rejected [%s]: %s\n", resp.Code, resp.Message)
	}
}

func watch(ctx context.Context, client *apiconnect.PlaylistClient) {
	stream, err := client.SubscribeChanges(ctx, connect.NewRequest(&apiconnect.Empty{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Watching playlist changes. Press Ctrl+C to exit.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		os.Exit(0)
	}()

	for stream.Receive() {
		e := stream.Msg()
		fmt.Printf("[Sequence: %d] %s", e.SequenceNo, e.Type)
		if e.TrackID != "" {
			fmt.Printf(" track=%s", e.TrackID)
		}
		fmt.Printf(" size=%d\n", e.Size)
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

// upload posts a file to the multipart upload endpoint.
func upload(ctx context.Context, path, title, artist string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		err := writeForm(form, f, filepath.Base(path), title, artist)
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(*server, "/")+"/api/tracks", pr)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var body httpapi.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Printf("Error: unexpected response (%s): %v\n", resp.Status, err)
		os.Exit(1)
	}

	if !body.Success {
		fmt.Printf("Rejected [%s]: %s\n", body.Code, body.Message)
		os.Exit(1)
	}
	fmt.Printf("Success: %s\n", body.Message)
	if body.Track != nil {
		printTrack(body.Track)
	}
}

func writeForm(form *multipart.Writer, r io.Reader, name, title, artist string) error {
	if title != "" {
		if err := form.WriteField("title", title); err != nil {
			return err
		}
	}
	if artist != "" {
		if err := form.WriteField("artist", artist); err != nil {
			return err
		}
	}
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return form.Close()
}
