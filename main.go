package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/customeros/mailbridge/config"
	"github.com/customeros/mailbridge/server"
)

func main() {
	app := &cli.App{
		Name:  "mailbridge",
		Usage: "unified REST gateway for Gmail, Outlook and Postmark mailboxes",
		Commands: []*cli.Command{
			{
				Name:   "server",
				Usage:  "Start the application server",
				Action: runServer,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(_ *cli.Context) error {
	cfg, err := config.InitConfig()
	if err != nil {
		return cli.Exit("Config initialization failed: "+err.Error(), 1)
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Mailbridge starting up...")

	srv, err := server.NewServer(cfg)
	if err != nil {
		return cli.Exit("Server setup failed: "+err.Error(), 1)
	}

	if err := srv.Run(); err != nil {
		return cli.Exit("Server stopped with error: "+err.Error(), 1)
	}

	log.Println("Shutdown complete")
	return nil
}
