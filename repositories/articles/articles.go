package articles

import (
	"newswire/models/entities"
	"newswire/utils/databases"

	"gorm.io/gorm/clause"
)

func New(db databases.SqlConnection) *Impl {
	return &Impl{db: db}
}

// Save upserts on fingerprint so a re-emission after dedup eviction does not
// fail the sink delivery.
func (repo *Impl) Save(article entities.StoredArticle) error {
	return repo.db.GetDB().
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			UpdateAll: true,
		}).
		Create(&article).Error
}

func (repo *Impl) Count() int64 {
	count := new(int64)
	repo.db.GetDB().Model(&entities.StoredArticle{}).Count(count)

	return *count
}
