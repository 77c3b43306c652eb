package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to scriptloop.db")
	last := flag.Int("last", 20, "show N most recent versions and log entries")
	version := flag.String("version", "", "show one version's full script document")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/scriptloop.db [--last N] [--version v] [--json]")
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	st, err := store.Open(*dbPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *version != "" {
		err = runDetailMode(st, *version, *jsonOut)
	} else {
		err = runListMode(st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listing struct {
	ActiveVersion string                   `json:"active_version"`
	Versions      []store.VersionInfo      `json:"versions"`
	Improvements  []store.ImprovementEntry `json:"improvements"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	active, err := st.GetActive()
	if err != nil {
		return fmt.Errorf("no active script: %w", err)
	}

	versions, err := st.ListVersions(active.ID, last)
	if err != nil {
		return err
	}
	entries, err := st.ListImprovements(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(listing{
			ActiveVersion: active.Version,
			Versions:      versions,
			Improvements:  entries,
		})
	}

	fmt.Printf("script: %s (active v%s)\n\n", active.ID, active.Version)
	fmt.Println("versions:")
	for _, v := range versions {
		marker := " "
		if v.Version == active.Version {
			marker = "*"
		}
		fmt.Printf("  %s v%-6s %s\n", marker, v.Version, v.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	fmt.Println("\nimprovements:")
	for _, e := range entries {
		fmt.Printf("  v%-6s %-14s %s\n", e.Version, e.Strategy, e.Reason)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(st *store.Store, version string, jsonOut bool) error {
	active, err := st.GetActive()
	if err != nil {
		return fmt.Errorf("no active script: %w", err)
	}
	sc, err := st.GetVersion(active.ID, version)
	if err != nil {
		return err
	}

	if jsonOut {
		return json.NewEncoder(os.Stdout).Encode(sc)
	}

	fmt.Printf("script: %s v%s\n%s\n\n", sc.ID, sc.Version, sc.Description)
	for _, sec := range sc.InOrder() {
		fmt.Printf("[%s] %s -> %v\n", sec.ID, sec.Name, sec.Next)
		fmt.Printf("  %s\n", sec.Description)
	}
	return nil
}

// #endregion detail-mode
