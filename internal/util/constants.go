package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 查找表文件名
const (
	VocabularyFile     = "vocabulary.json"
	SubjectVectorsFile = "subjects_vector.json"
	TagGraphFile       = "tag_graph.json"
)

// 推荐结果缓存
const (
	RecommendationCachePrefix = "recommendations"
	DefaultCacheTTLHours      = 24 * 14
)
