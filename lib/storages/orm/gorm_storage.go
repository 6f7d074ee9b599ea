package orm

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/pescuma/cheeky/lib/model"
	"github.com/pescuma/cheeky/lib/storages"
)

type gormStorage struct {
	mutex  sync.RWMutex
	db     *gorm.DB
	logger zerolog.Logger

	sqlSummaries map[string]*sqlSummary
}

// NewGormStorage opens the database and migrates its tables. maxOpenConns of zero keeps the driver default.
func NewGormStorage(d gorm.Dialector, log zerolog.Logger, maxOpenConns int) (storages.Storage, error) {
	log = log.With().Str("component", "storage").Logger()

	l := logger.New(
		&gormLogWriter{logger: log},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}

	if maxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}

		sqlDB.SetMaxOpenConns(maxOpenConns)
	}

	err = db.AutoMigrate(
		&sqlChunk{},
		&sqlSummary{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating tables")
	}

	return &gormStorage{
		db:           db,
		logger:       log,
		sqlSummaries: map[string]*sqlSummary{},
	}, nil
}

func (s *gormStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (s *gormStorage) LoadChunks(commitHash string, source string) ([]*model.Chunk, error) {
	var rows []*sqlChunk
	err := s.db.Where("commit_hash = ? AND source = ?", commitHash, source).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error loading chunks of %v", source)
	}

	return lo.Map(rows, func(r *sqlChunk, _ int) *model.Chunk { return r.toModel() }), nil
}

func (s *gormStorage) WriteChunks(commitHash string, chunks []*model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var seq int64
	err := s.db.Model(&sqlChunk{}).Where("commit_hash = ?", commitHash).Count(&seq).Error
	if err != nil {
		return err
	}

	rows := lo.Map(chunks, func(c *model.Chunk, i int) *sqlChunk {
		return newSqlChunk(commitHash, int(seq)+i, c)
	})

	db := s.db.Session(&gorm.Session{
		CreateBatchSize: 100,
	})

	err = db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return errors.Wrap(err, "error writing chunks")
	}

	s.logger.Debug().Str("commit", commitHash).Int("chunks", len(rows)).Msg("Stored chunks")
	return nil
}

func (s *gormStorage) DeleteChunks(commitHash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.db.Where("commit_hash = ?", commitHash).Delete(&sqlChunk{}).Error
}

func (s *gormStorage) LoadSummary(commitHash string, modelName string) (*model.Summary, error) {
	key := compositeKey(commitHash, modelName)

	s.mutex.RLock()
	cached, ok := s.sqlSummaries[key]
	s.mutex.RUnlock()

	if ok {
		return cached.toModel(), nil
	}

	var rows []*sqlSummary
	err := s.db.Where("commit_hash = ? AND model = ?", commitHash, modelName).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "error loading summary of %v", commitHash)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	s.mutex.Lock()
	addList(&s.sqlSummaries, rows)
	s.mutex.Unlock()

	return rows[0].toModel(), nil
}

func (s *gormStorage) WriteSummary(summary *model.Summary) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ss := newSqlSummary(summary)
	if !prepareChange(&s.sqlSummaries, ss) {
		return nil
	}

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc: func() time.Time { return now },
	})

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(ss).Error
	if err != nil {
		delete(s.sqlSummaries, ss.CacheKey())
		return errors.Wrapf(err, "error writing summary of %v", summary.CommitHash)
	}

	return nil
}

func addList[T sqlTable](target *map[string]T, toAdd []T) {
	for _, v := range toAdd {
		(*target)[v.CacheKey()] = v
	}
}

func prepareChange[T sqlTable](byID *map[string]T, n T) bool {
	o, ok := (*byID)[n.CacheKey()]
	if ok {
		ro := reflect.Indirect(reflect.ValueOf(o))
		rn := reflect.Indirect(reflect.ValueOf(n))

		rn.FieldByName("CreatedAt").Set(ro.FieldByName("CreatedAt"))
		rn.FieldByName("UpdatedAt").Set(ro.FieldByName("UpdatedAt"))
	}

	if ok && reflect.DeepEqual(n, o) {
		return false
	}

	(*byID)[n.CacheKey()] = n
	return true
}

type gormLogWriter struct {
	logger zerolog.Logger
}

func (w *gormLogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

type NamingStrategy struct {
	inner schema.NamingStrategy
}

func (n *NamingStrategy) TableName(table string) string {
	return strings.TrimPrefix(n.inner.TableName(table), "sql_")
}

func (n *NamingStrategy) SchemaName(table string) string {
	return n.inner.SchemaName(table)
}

func (n *NamingStrategy) ColumnName(table, column string) string {
	return n.inner.ColumnName(table, column)
}

func (n *NamingStrategy) JoinTableName(joinTable string) string {
	return n.inner.JoinTableName(joinTable)
}

func (n *NamingStrategy) RelationshipFKName(relationship schema.Relationship) string {
	return strings.ReplaceAll(n.inner.RelationshipFKName(relationship), "_sql_", "_")
}

func (n *NamingStrategy) CheckerName(table, column string) string {
	return strings.ReplaceAll(n.inner.CheckerName(table, column), "_sql_", "_")
}

func (n *NamingStrategy) IndexName(table, column string) string {
	return strings.ReplaceAll(n.inner.IndexName(table, column), "_sql_", "_")
}
