package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/corvidchess/searchcore/internal/engine"
	"github.com/corvidchess/searchcore/internal/storage"
	"github.com/corvidchess/searchcore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashSizeMB = flag.Int("hash", 64, "transposition table size in MB")
	persist    = flag.Bool("persist", false, "warm-start the transposition table from the last saved snapshot, and save it on quit")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(*hashSizeMB)

	protocol := uci.New(eng)

	if *persist {
		store, err := storage.NewPersistentStore()
		if err != nil {
			log.Printf("Warning: persistent store unavailable: %v", err)
		} else {
			eng.AttachStore(store)
			if err := eng.LoadSnapshot(); err != nil {
				log.Printf("Warning: failed to load transposition table snapshot: %v", err)
			}
			protocol.SetOnQuit(func() {
				if err := eng.SaveSnapshot(); err != nil {
					log.Printf("Warning: failed to save transposition table snapshot: %v", err)
				}
				store.Close()
			})
		}
	}

	protocol.Run()
}
