// avatarctl drives the proxy API from the command line: upload a photo or
// audio clip, submit a generation job, and watch it until it finishes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"server/internal/apiclient"
	"server/internal/avatars"
	"server/internal/infra"
	"server/internal/poller"
)

const usage = `usage: avatarctl <command> [args]

commands:
  avatars                          list avatars and talking photos
  upload <photo-file>              create a talking photo from a still photo
  asset <file> <audio|image>       upload an asset, prints the asset id
  generate <talking_photo_id> <audio_asset_id> [title]
                                   submit a video job, prints the video id
  watch <video_id>                 poll job status until terminal
  videos                           list video jobs
  delete <talking_photo_id>        delete a talking photo
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		fatal(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	baseURL := os.Getenv("AVATARCTL_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Port
	}
	client := apiclient.NewClient(apiclient.Options{BaseURL: baseURL})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch os.Args[1] {
	case "avatars":
		listAvatars(ctx, client, &logger)
	case "upload":
		requireArgs(3)
		uploadPhoto(ctx, client, os.Args[2])
	case "asset":
		requireArgs(4)
		uploadAsset(ctx, client, os.Args[2], os.Args[3])
	case "generate":
		requireArgs(4)
		title := "avatarctl video"
		if len(os.Args) > 4 {
			title = os.Args[4]
		}
		generate(ctx, client, os.Args[2], os.Args[3], title)
	case "watch":
		requireArgs(3)
		watch(ctx, client, &logger, cfg.PollInterval, os.Args[2])
	case "videos":
		listVideos(ctx, client)
	case "delete":
		requireArgs(3)
		if err := client.DeleteAvatar(ctx, os.Args[2]); err != nil {
			fatal(err)
		}
		fmt.Println("deleted", os.Args[2])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func listAvatars(ctx context.Context, client *apiclient.Client, logger *infra.Logger) {
	store := avatars.NewStore(client, logger)
	if err := store.Refresh(ctx); err != nil {
		fatal(fmt.Errorf("%s: %w", store.LastError(), err))
	}
	fmt.Println("avatars:")
	for _, a := range store.Avatars() {
		fmt.Printf("  %s  %s\n", a.AvatarID, a.AvatarName)
	}
	fmt.Println("talking photos:")
	for _, p := range store.TalkingPhotos() {
		fmt.Printf("  %s  %s\n", p.TalkingPhotoID, p.TalkingPhotoName)
	}
}

func uploadPhoto(ctx context.Context, client *apiclient.Client, path string) {
	f, err := os.Open(path)
	if err != nil {
		fatal(err)
	}
	defer f.Close()
	raw, err := client.CreateAvatar(ctx, f.Name(), f)
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(raw))
}

func uploadAsset(ctx context.Context, client *apiclient.Client, path, fileType string) {
	f, err := os.Open(path)
	if err != nil {
		fatal(err)
	}
	defer f.Close()
	asset, err := client.UploadAsset(ctx, f.Name(), f, fileType)
	if err != nil {
		fatal(err)
	}
	fmt.Println(asset.ID)
}

func generate(ctx context.Context, client *apiclient.Client, talkingPhotoID, audioAssetID, title string) {
	resp, err := client.GenerateVideo(ctx, apiclient.GenerateRequest{
		Title:          title,
		TalkingPhotoID: talkingPhotoID,
		AudioAssetID:   audioAssetID,
		TalkingStyle:   "expressive",
	})
	if err != nil {
		fatal(err)
	}
	fmt.Println(resp.VideoID)
}

func watch(ctx context.Context, client *apiclient.Client, logger *infra.Logger, interval time.Duration, videoID string) {
	p := poller.New(client, interval, logger)
	job := p.Watch(ctx, videoID)
	defer job.Stop()

	for u := range job.Updates() {
		switch {
		case u.Err != nil:
			fatal(u.Err)
		case u.Done:
			fmt.Printf("%s  %s\n", u.Status.Status, u.Status.VideoURL)
			if u.Status.Duration > 0 {
				fmt.Printf("duration: %.1fs\n", u.Status.Duration)
			}
			return
		default:
			fmt.Println(u.Status.Status)
		}
	}
}

func listVideos(ctx context.Context, client *apiclient.Client) {
	list, err := client.Videos(ctx)
	if err != nil {
		fatal(err)
	}
	for _, v := range list.Videos {
		fmt.Printf("%s  %-10s  %s\n", v.VideoID, v.Status, v.VideoTitle)
	}
}

func requireArgs(n int) {
	if len(os.Args) < n {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "avatarctl:", err)
	os.Exit(1)
}
