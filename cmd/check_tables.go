package cmd

import (
	"subject_recommender/internal/app"
	"subject_recommender/internal/lookup"
	"subject_recommender/internal/repository"
	"subject_recommender/internal/service"
	"subject_recommender/pkg/database"
	"subject_recommender/pkg/logger"

	"github.com/spf13/cobra"
)

// tablesReport check-tables 的输出
type tablesReport struct {
	Location       string                  `json:"location"`
	Vocabulary     map[lookup.Category]int `json:"vocabulary"`
	SubjectVectors int                     `json:"subject_vectors"`
	TagEdges       int                     `json:"tag_edges"`
	MissingVectors []string                `json:"missing_vectors,omitempty"`
}

var checkTablesCmd = &cobra.Command{
	Use:   "check-tables",
	Short: "Load and cross-validate the lookup tables",
	Long:  "Loads vocabulary, subject vectors and tag graph from the configured storage and fails if any table is missing or inconsistent. With --with-catalog it also lists catalog subjects that have no vector.",
	RunE:  runCheckTables,
}

func init() {
	checkTablesCmd.Flags().Bool("with-catalog", false, "also check vector coverage of the subject catalog")
	rootCmd.AddCommand(checkTablesCmd)
}

func runCheckTables(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return respond(cmd, nil, err)
	}
	ctx := cmdContext(cmd)

	tp, err := app.InitObservability(cfg)
	if err != nil {
		return respond(cmd, nil, err)
	}
	if tp != nil {
		defer tp.Shutdown(ctx)
	}
	defer logger.Sync()

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		return respond(cmd, nil, err)
	}
	tables, err := app.LoadTables(ctx, storage)
	if err != nil {
		return respond(cmd, nil, err)
	}

	report := tablesReport{
		Location:       storage.Location(""),
		Vocabulary:     make(map[lookup.Category]int, len(lookup.Categories)),
		SubjectVectors: len(tables.SubjectVectors),
	}
	for _, c := range lookup.Categories {
		report.Vocabulary[c] = tables.Vocabulary.Len(c)
	}
	for i := 0; i < tables.Graph.Len(); i++ {
		report.TagEdges += len(tables.Graph.Neighbors(i))
	}

	withCatalog, _ := cmd.Flags().GetBool("with-catalog")
	if withCatalog {
		var subjects service.SubjectCatalog
		if cfg.Catalog.Source == "file" {
			subjects = repository.NewFileCatalog(cfg.Catalog.SubjectsFile, cfg.Catalog.StudentsFile)
		} else {
			db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
			if err != nil {
				return respond(cmd, nil, err)
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			subjects = repository.NewSubjectRepository(db)
		}
		list, err := subjects.ListWithInfo(ctx)
		if err != nil {
			return respond(cmd, nil, err)
		}
		report.MissingVectors = tables.MissingVectors(list)
	}

	return respond(cmd, report, nil)
}
