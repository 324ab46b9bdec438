package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsIn is a "barang masuk" ledger entry. Creating, updating or deleting
// one moves Product.StockIn by QtyIn.
type GoodsIn struct {
	BaseModel
	Date              time.Time       `gorm:"not null;index" json:"date"`
	NoteTypeID        uuid.UUID       `gorm:"type:uuid;not null" json:"note_type_id"`
	SupplierID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"supplier_id"`
	NoteNumber        string          `gorm:"type:varchar(100);not null" json:"note_number"`
	AdditionalNotes   string          `gorm:"type:text" json:"additional_notes"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	QtyIn             int             `gorm:"not null" json:"qty_in"`
	Unit              string          `gorm:"type:varchar(50);not null" json:"unit"`
	EnteredByID       uuid.UUID       `gorm:"column:entered_by;type:uuid;not null" json:"entered_by"`
	StorageLocationID uuid.UUID       `gorm:"type:uuid;not null" json:"storage_location_id"`
	Hpp               decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"hpp"`

	// Relasi, resolved on read only
	NoteType        *NoteType        `gorm:"foreignKey:NoteTypeID" json:"-"`
	Supplier        *Supplier        `gorm:"foreignKey:SupplierID" json:"-"`
	Product         *Product         `gorm:"foreignKey:ProductID" json:"-"`
	EnteredBy       *User            `gorm:"foreignKey:EnteredByID" json:"-"`
	StorageLocation *StorageLocation `gorm:"foreignKey:StorageLocationID" json:"-"`
}

func (GoodsIn) TableName() string { return "barang_masuk" }

// Value is hpp * qty_in.
func (g *GoodsIn) Value() decimal.Decimal {
	return g.Hpp.Mul(decimal.NewFromInt(int64(g.QtyIn)))
}

// GoodsInResponse is the read shape with explicit reference markers.
type GoodsInResponse struct {
	ID              uuid.UUID            `json:"id"`
	Date            time.Time            `json:"date"`
	NoteType        Ref[NoteType]        `json:"note_type"`
	Supplier        Ref[Supplier]        `json:"supplier"`
	NoteNumber      string               `json:"note_number"`
	AdditionalNotes string               `json:"additional_notes"`
	Product         Ref[Product]         `json:"product"`
	QtyIn           int                  `json:"qty_in"`
	Unit            string               `json:"unit"`
	EnteredBy       Ref[UserResponse]    `json:"entered_by"`
	StorageLocation Ref[StorageLocation] `json:"storage_location"`
	Hpp             decimal.Decimal      `json:"hpp"`
	TotalValue      decimal.Decimal      `json:"total_value"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (g *GoodsIn) ToResponse() GoodsInResponse {
	return GoodsInResponse{
		ID:              g.ID,
		Date:            g.Date,
		NoteType:        NewRef(g.NoteTypeID, g.NoteType),
		Supplier:        NewRef(g.SupplierID, g.Supplier),
		NoteNumber:      g.NoteNumber,
		AdditionalNotes: g.AdditionalNotes,
		Product:         NewRef(g.ProductID, g.Product),
		QtyIn:           g.QtyIn,
		Unit:            g.Unit,
		EnteredBy:       NewRef(g.EnteredByID, userResponse(g.EnteredBy)),
		StorageLocation: NewRef(g.StorageLocationID, g.StorageLocation),
		Hpp:             g.Hpp,
		TotalValue:      g.Value(),
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

func userResponse(u *User) *UserResponse {
	if u == nil {
		return nil
	}
	resp := u.ToResponse()
	return &resp
}
