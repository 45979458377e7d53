package main

import (
	"log"
	"os"

	"github.com/trezcool/studyhub/client"
	"github.com/trezcool/studyhub/core"
	logsvc "github.com/trezcool/studyhub/services/logger"
	"github.com/trezcool/studyhub/storage/session/filestore"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// the session outlives the process
	store, err := filestore.New(conf.Admin.SessionDir)
	if err != nil {
		logger.Fatal(err.Error(), err)
	}

	// start CLI
	cli := commandLine{
		client: client.New(conf.Admin.APIURL, store, client.WithSessionTTL(conf.Session.TTL)),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("error: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
