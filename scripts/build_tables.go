// 重新生成推荐查找表：词表、课程特征向量和标签关联图
//
// 课程目录变动（新增课程、教师或标签）后需要手动执行，
// 生成结果写入 storage.local_path/storage.tables_prefix，加 -upload 发布到配置的对象存储。
//
// 用法: go run scripts/build_tables.go [-config configs] [-edges configs/tag_edges.yaml] [-upload]

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"subject_recommender/internal/config"
	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"
	"subject_recommender/internal/repository"
	"subject_recommender/internal/service"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/database"
	"subject_recommender/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type edgeFile struct {
	Edges []lookup.TagEdge `yaml:"edges"`
}

func main() {
	configDir := flag.String("config", "configs", "配置目录")
	edgesPath := flag.String("edges", "configs/tag_edges.yaml", "标签关联图定义")
	outDir := flag.String("out", "", "输出目录，默认 storage.local_path/storage.tables_prefix")
	upload := flag.Bool("upload", false, "生成后上传到配置的存储")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Sync()

	ctx := context.Background()

	subjects, err := loadSubjects(ctx, cfg)
	if err != nil {
		log.Fatalf("读取课程目录失败: %v", err)
	}
	edges, err := readEdges(*edgesPath)
	if err != nil {
		log.Fatalf("解析标签关联图失败: %v", err)
	}

	vocab := lookup.BuildVocabulary(subjects)
	graph, skipped, err := lookup.BuildTagGraph(vocab, edges)
	if err != nil {
		log.Fatalf("生成标签关联图失败: %v", err)
	}
	for _, e := range skipped {
		logger.Log.Warn("Tag edge skipped, tag not in vocabulary",
			zap.String("from", e.From), zap.String("to", e.To))
	}

	tables, err := lookup.NewTables(vocab, lookup.BuildSubjectVectors(vocab, subjects), graph)
	if err != nil {
		log.Fatalf("查找表校验失败: %v", err)
	}

	dir := *outDir
	if dir == "" {
		dir = filepath.Join(cfg.Storage.LocalPath, filepath.FromSlash(cfg.Storage.TablesPrefix))
	}
	if err := lookup.Write(dir, tables); err != nil {
		log.Fatalf("写入查找表失败: %v", err)
	}
	logger.Log.Info("Lookup tables written",
		zap.String("dir", dir),
		zap.Int("subjects", len(tables.SubjectVectors)),
		zap.Int("tags", vocab.Len(lookup.CategoryTags)),
		zap.Int("skipped_edges", len(skipped)),
	)

	if !*upload {
		return
	}
	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		log.Fatalf("初始化存储失败: %v", err)
	}
	for _, name := range []string{util.VocabularyFile, util.SubjectVectorsFile, util.TagGraphFile} {
		if err := storage.UploadFile(ctx, name, filepath.Join(dir, name)); err != nil {
			log.Fatalf("上传 %s 失败: %v", name, err)
		}
		logger.Log.Info("Lookup table published", zap.String("location", storage.Location(name)))
	}
}

func loadSubjects(ctx context.Context, cfg *config.Config) ([]model.Subject, error) {
	if cfg.Catalog.Source == "file" {
		return repository.NewFileCatalog(cfg.Catalog.SubjectsFile, cfg.Catalog.StudentsFile).ListWithInfo(ctx)
	}
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return repository.NewSubjectRepository(db).ListWithInfo(ctx)
}

func readEdges(path string) ([]lookup.TagEdge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f edgeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Edges, nil
}
