package articles

import (
	"newswire/models/entities"
	"newswire/utils/databases"
)

type Repository interface {
	Save(article entities.StoredArticle) error
	Count() int64
}

type Impl struct {
	db databases.SqlConnection
}
