package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/store"
)

// #region main

// bootstrap seeds a store with a base script so the loop and the read-only
// HTTP surface have a version to start from.
func main() {
	dbPath := flag.String("db", "scriptloop.db", "path to the store database")
	scriptPath := flag.String("script", "", "base script JSON (default built-in script when omitted or unreadable)")
	force := flag.Bool("force", false, "seed even when an active script already exists")
	flag.Parse()

	log := logrus.New()

	st, err := store.Open(*dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if !*force {
		if active, err := st.GetActive(); err == nil {
			fmt.Printf("store already seeded: %s v%s (use --force to overwrite)\n", active.ID, active.Version)
			return
		}
	}

	sc := st.LoadBase(*scriptPath)
	if err := st.SaveVersion(sc); err != nil {
		fmt.Fprintf(os.Stderr, "save base script: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeded %s v%s (%d sections) into %s\n", sc.ID, sc.Version, len(sc.Sections), *dbPath)
}

// #endregion main
