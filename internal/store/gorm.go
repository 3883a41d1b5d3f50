package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

// gormDocument is the persisted row shape. Table rows are kept as a jsonb
// column so the header/body structure round-trips exactly.
type gormDocument struct {
	ID               int            `gorm:"primaryKey;autoIncrement"`
	OriginalFileName string         `gorm:"not null"`
	StoredFileName   string         `gorm:"not null;index"`
	MimeType         string         `gorm:"type:varchar(255)"`
	Size             int64
	SourcePath       string
	CanonicalPath    string
	ExtractedText    string         `gorm:"type:text"`
	TableRows        datatypes.JSON `gorm:"type:jsonb"`
	IsTable          bool           `gorm:"default:false"`
	Preview          string         `gorm:"type:text"`
	CreatedAt        time.Time
}

// TableName specifies the table name
func (gormDocument) TableName() string {
	return "documents"
}

// Gorm is the durable catalog. Postgres sequences keep ids monotonic and
// never reused, matching the in-memory store's contract.
type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the documents table and returns a store bound to db.
func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&gormDocument{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Create(rec *models.DocumentRecord) (int, error) {
	row := gormDocument{
		OriginalFileName: rec.OriginalFileName,
		StoredFileName:   rec.StoredFileName,
		MimeType:         rec.MimeType,
		Size:             rec.Size,
		SourcePath:       rec.SourcePath,
		CanonicalPath:    rec.CanonicalPath,
		ExtractedText:    rec.ExtractedText,
		IsTable:          rec.IsTable,
		Preview:          rec.Preview,
	}
	if rec.TableRows != nil {
		data, err := json.Marshal(rec.TableRows)
		if err != nil {
			return 0, fmt.Errorf("encode table rows: %w", err)
		}
		row.TableRows = datatypes.JSON(data)
	}

	if err := g.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}

	rec.ID = row.ID
	rec.PdfURL = PdfURL(row.ID)
	rec.CreatedAt = row.CreatedAt
	return row.ID, nil
}

func (g *Gorm) List() ([]models.DocumentSummary, error) {
	var rows []gormDocument
	if err := g.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}
	items := make([]models.DocumentSummary, 0, len(rows))
	for i := range rows {
		rec := rowToRecord(&rows[i])
		items = append(items, rec.Summary())
	}
	return items, nil
}

func (g *Gorm) Get(id int) (*models.DocumentRecord, error) {
	var row gormDocument
	if err := g.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch document %d: %w", id, err)
	}
	return rowToRecord(&row), nil
}

func (g *Gorm) Delete(id int) error {
	rec, err := g.Get(id)
	if err != nil {
		return err
	}
	if err := g.db.Delete(&gormDocument{}, id).Error; err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	releaseFiles(rec)
	return nil
}

func rowToRecord(row *gormDocument) *models.DocumentRecord {
	rec := &models.DocumentRecord{
		ID:               row.ID,
		OriginalFileName: row.OriginalFileName,
		StoredFileName:   row.StoredFileName,
		MimeType:         row.MimeType,
		Size:             row.Size,
		SourcePath:       row.SourcePath,
		CanonicalPath:    row.CanonicalPath,
		ExtractedText:    row.ExtractedText,
		IsTable:          row.IsTable,
		Preview:          row.Preview,
		PdfURL:           PdfURL(row.ID),
		CreatedAt:        row.CreatedAt,
	}
	if len(row.TableRows) > 0 {
		// Decode errors leave rows nil; the record then exports as text.
		_ = json.Unmarshal(row.TableRows, &rec.TableRows)
	}
	return rec
}
