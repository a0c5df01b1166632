// Command crashcrew is a small utility for exercising the SDK against a live
// backend: opening feedback threads, posting messages, and draining the
// crash spool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/CrashCrew/crash-crew-sdk/config"
	"github.com/CrashCrew/crash-crew-sdk/crash"
	"github.com/CrashCrew/crash-crew-sdk/device"
	"github.com/CrashCrew/crash-crew-sdk/feedback"
	"github.com/CrashCrew/crash-crew-sdk/logger"
	"github.com/CrashCrew/crash-crew-sdk/types"
)

func main() {
	logger.InitLogger()
	defer func() {
		_ = logger.Close()
	}()

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "open":
		runOpen(ctx, cfg, os.Args[2:])
	case "post":
		runPost(ctx, cfg, os.Args[2:])
	case "upload-crashes":
		runUploadCrashes(ctx, cfg)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: crashcrew <command> [flags]

commands:
  open            fetch a feedback thread by token
  post            post a feedback message (creates a thread without -token)
  upload-crashes  upload all spooled crash reports`)
	os.Exit(2)
}

func newClient(cfg *config.Config) *feedback.Client {
	client, err := feedback.NewClient(cfg.Client, feedback.WithDeviceProvider(device.NewHostProvider()))
	if err != nil {
		log.Fatalf("Failed to create feedback client: %v", err)
	}
	return client
}

func runOpen(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	token := fs.String("token", "", "thread token")
	_ = fs.Parse(args)
	if *token == "" {
		log.Fatal("-token is required")
	}

	thread, err := newClient(cfg).Open(ctx, *token)
	if err != nil {
		log.Fatalf("Failed to open thread: %v", err)
	}
	if thread == nil {
		fmt.Println("Thread was deleted on the server")
		return
	}

	fmt.Printf("Thread %s (#%d), %d message(s)\n", thread.Token(), thread.ID(), len(thread.Messages()))
	for _, msg := range thread.Messages() {
		fmt.Printf("  [%s] %s: %s\n", msg.CreatedAt.Format(time.RFC3339), msg.Name, msg.Text)
	}
}

func runPost(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	token := fs.String("token", "", "existing thread token (omit to create a new thread)")
	name := fs.String("name", "", "author name")
	email := fs.String("email", "", "author email")
	subject := fs.String("subject", "", "message subject")
	text := fs.String("text", "", "message text")
	attach := fs.String("attach", "", "path of a file to attach")
	_ = fs.Parse(args)
	if *text == "" {
		log.Fatal("-text is required")
	}

	client := newClient(cfg)

	var thread *feedback.Thread
	if *token == "" {
		thread = feedback.NewThread()
	} else {
		var err error
		thread, err = client.Open(ctx, *token)
		if err != nil {
			log.Fatalf("Failed to open thread: %v", err)
		}
		if thread == nil {
			log.Fatalf("Thread %s was deleted on the server", *token)
		}
	}

	msg := types.FeedbackMessage{
		Name:    *name,
		Email:   *email,
		Subject: *subject,
		Text:    *text,
	}
	if *attach != "" {
		data, err := os.ReadFile(*attach)
		if err != nil {
			log.Fatalf("Failed to read attachment: %v", err)
		}
		msg.Attachments = append(msg.Attachments,
			types.NewFeedbackAttachment(*attach, data))
	}

	if err := client.PostMessage(ctx, thread, msg); err != nil {
		log.Fatalf("Failed to post message: %v", err)
	}
	fmt.Printf("Posted to thread %s (state: %s)\n", thread.Token(), thread.State())
}

func runUploadCrashes(ctx context.Context, cfg *config.Config) {
	spool, err := crash.NewSpool(cfg.Crash)
	if err != nil {
		log.Fatalf("Failed to open crash spool: %v", err)
	}
	uploader, err := crash.NewUploader(cfg.Client, cfg.Crash, spool)
	if err != nil {
		log.Fatalf("Failed to create uploader: %v", err)
	}

	uploaded, err := uploader.UploadPending(ctx)
	if err != nil {
		log.Fatalf("Upload stopped after %d report(s): %v", uploaded, err)
	}
	fmt.Printf("Uploaded %d crash report(s)\n", uploaded)
}
