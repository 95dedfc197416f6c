package catalog

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/models"
)

// GormCatalog is the default Catalog implementation, backed by the
// Share/Schema/Table GORM models (internal/database).
type GormCatalog struct {
	db              *gorm.DB
	pageTokenSecret string
	defaultPageSize int
	maxPageSize     int
}

func NewGormCatalog(db *gorm.DB, pageTokenSecret string, defaultPageSize, maxPageSize int) *GormCatalog {
	return &GormCatalog{
		db:              db,
		pageTokenSecret: pageTokenSecret,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (c *GormCatalog) resolvePageSize(maxResults int) int {
	if maxResults <= 0 {
		return c.defaultPageSize
	}
	if maxResults > c.maxPageSize {
		return c.maxPageSize
	}
	return maxResults
}

func (c *GormCatalog) resolveCursor(pageToken string) (string, error) {
	if pageToken == "" {
		return "", nil
	}
	cursor, err := decodeCursor(c.pageTokenSecret, pageToken)
	if err != nil {
		return "", apperrors.InvalidParameter("invalid pageToken").WithInternal(err)
	}
	return cursor.LastName, nil
}

func (c *GormCatalog) ListShares(ctx context.Context, pageToken string, maxResults int) (ListResult[Share], error) {
	lastName, err := c.resolveCursor(pageToken)
	if err != nil {
		return ListResult[Share]{}, err
	}
	pageSize := c.resolvePageSize(maxResults)

	var rows []models.Share
	q := c.db.WithContext(ctx).Where("active = ?", true).Order("name asc")
	if lastName != "" {
		q = q.Where("name > ?", lastName)
	}
	if err := q.Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return ListResult[Share]{}, apperrors.Unavailable("catalog unavailable", err)
	}

	items := make([]Share, 0, len(rows))
	for _, r := range rows {
		items = append(items, Share{Name: r.Name, ID: r.PublicID})
	}

	return paginate(items, pageSize, func(s Share) string { return s.Name }, c.pageTokenSecret)
}

func (c *GormCatalog) GetShare(ctx context.Context, name string) (Share, error) {
	var row models.Share
	if err := c.db.WithContext(ctx).Where("name = ? AND active = ?", name, true).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Share{}, apperrors.NotFound("share " + name)
		}
		return Share{}, apperrors.Unavailable("catalog unavailable", err)
	}
	return Share{Name: row.Name, ID: row.PublicID}, nil
}

func (c *GormCatalog) ListSchemas(ctx context.Context, share, pageToken string, maxResults int) (ListResult[Schema], error) {
	shareRow, err := c.getShareRow(ctx, share)
	if err != nil {
		return ListResult[Schema]{}, err
	}

	lastName, err := c.resolveCursor(pageToken)
	if err != nil {
		return ListResult[Schema]{}, err
	}
	pageSize := c.resolvePageSize(maxResults)

	var rows []models.Schema
	q := c.db.WithContext(ctx).Where("share_id = ?", shareRow.ID).Order("name asc")
	if lastName != "" {
		q = q.Where("name > ?", lastName)
	}
	if err := q.Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return ListResult[Schema]{}, apperrors.Unavailable("catalog unavailable", err)
	}

	items := make([]Schema, 0, len(rows))
	for _, r := range rows {
		items = append(items, Schema{Name: r.Name, Share: share})
	}
	return paginate(items, pageSize, func(s Schema) string { return s.Name }, c.pageTokenSecret)
}

func (c *GormCatalog) ListTables(ctx context.Context, share, schema, pageToken string, maxResults int) (ListResult[Table], error) {
	schemaRow, _, err := c.getSchemaRow(ctx, share, schema)
	if err != nil {
		return ListResult[Table]{}, err
	}

	lastName, err := c.resolveCursor(pageToken)
	if err != nil {
		return ListResult[Table]{}, err
	}
	pageSize := c.resolvePageSize(maxResults)

	var rows []models.Table
	q := c.db.WithContext(ctx).Where("schema_id = ?", schemaRow.ID).Order("name asc")
	if lastName != "" {
		q = q.Where("name > ?", lastName)
	}
	if err := q.Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return ListResult[Table]{}, apperrors.Unavailable("catalog unavailable", err)
	}

	items := make([]Table, 0, len(rows))
	for _, r := range rows {
		items = append(items, toTable(r, share, schema))
	}
	return paginate(items, pageSize, func(t Table) string { return t.Name }, c.pageTokenSecret)
}

func (c *GormCatalog) ListAllTables(ctx context.Context, share, pageToken string, maxResults int) (ListResult[Table], error) {
	shareRow, err := c.getShareRow(ctx, share)
	if err != nil {
		return ListResult[Table]{}, err
	}

	lastName, err := c.resolveCursor(pageToken)
	if err != nil {
		return ListResult[Table]{}, err
	}
	pageSize := c.resolvePageSize(maxResults)

	// "All tables" ordering is schema.name then table.name; the cursor
	// encodes the last emitted "schema/table" composite as LastName.
	type row struct {
		models.Table
		SchemaName string
	}
	var rows []row
	q := c.db.WithContext(ctx).
		Table("tables").
		Select("tables.*, schemas.name as schema_name").
		Joins("JOIN schemas ON schemas.id = tables.schema_id").
		Where("schemas.share_id = ?", shareRow.ID).
		Order("schemas.name asc, tables.name asc")
	if lastName != "" {
		q = q.Where("(schemas.name || '/' || tables.name) > ?", lastName)
	}
	if err := q.Limit(pageSize + 1).Find(&rows).Error; err != nil {
		return ListResult[Table]{}, apperrors.Unavailable("catalog unavailable", err)
	}

	items := make([]Table, 0, len(rows))
	for _, r := range rows {
		items = append(items, toTable(r.Table, share, r.SchemaName))
	}
	return paginate(items, pageSize, func(t Table) string { return t.Schema + "/" + t.Name }, c.pageTokenSecret)
}

func (c *GormCatalog) ResolveTable(ctx context.Context, share, schema, table string) (Table, error) {
	schemaRow, _, err := c.getSchemaRow(ctx, share, schema)
	if err != nil {
		return Table{}, err
	}
	var row models.Table
	if err := c.db.WithContext(ctx).Where("schema_id = ? AND name = ?", schemaRow.ID, table).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return Table{}, apperrors.NotFound("table " + share + "." + schema + "." + table)
		}
		return Table{}, apperrors.Unavailable("catalog unavailable", err)
	}
	return toTable(row, share, schema), nil
}

func (c *GormCatalog) getShareRow(ctx context.Context, share string) (models.Share, error) {
	var row models.Share
	if err := c.db.WithContext(ctx).Where("name = ? AND active = ?", share, true).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Share{}, apperrors.NotFound("share " + share)
		}
		return models.Share{}, apperrors.Unavailable("catalog unavailable", err)
	}
	return row, nil
}

func (c *GormCatalog) getSchemaRow(ctx context.Context, share, schema string) (models.Schema, models.Share, error) {
	shareRow, err := c.getShareRow(ctx, share)
	if err != nil {
		return models.Schema{}, models.Share{}, err
	}
	var row models.Schema
	if err := c.db.WithContext(ctx).Where("share_id = ? AND name = ?", shareRow.ID, schema).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.Schema{}, models.Share{}, apperrors.NotFound("schema " + share + "." + schema)
		}
		return models.Schema{}, models.Share{}, apperrors.Unavailable("catalog unavailable", err)
	}
	return row, shareRow, nil
}

func toTable(r models.Table, share, schema string) Table {
	return Table{
		Name:        r.Name,
		Schema:      schema,
		Share:       share,
		ID:          r.PublicID,
		StorageURI:  r.StorageURI,
		Format:      string(r.Format),
		ShareAsView: r.ShareAsView,
	}
}

// paginate slices a fetched (pageSize+1)-sized window into a page plus an
// optional signed cursor for the next one.
func paginate[T any](items []T, pageSize int, nameOf func(T) string, secret string) (ListResult[T], error) {
	if len(items) <= pageSize {
		return ListResult[T]{Items: items}, nil
	}
	page := items[:pageSize]
	token, err := encodeCursor(secret, nameOf(page[len(page)-1]), pageSize)
	if err != nil {
		return ListResult[T]{}, apperrors.Internal("failed to mint page token", err)
	}
	return ListResult[T]{Items: page, NextPageToken: token}, nil
}
