package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsOut is a "barang keluar" ledger entry. The *Snapshot fields are copied
// from the product when the entry is created (or its product changes) and
// never follow later product edits.
type GoodsOut struct {
	BaseModel
	Date                time.Time       `gorm:"not null;index" json:"date"`
	NoteTypeID          uuid.UUID       `gorm:"type:uuid;not null" json:"note_type_id"`
	CustomerID          *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id"`
	NoteNumber          string          `gorm:"type:varchar(100);not null" json:"note_number"`
	AdditionalInfo      *string         `gorm:"type:text" json:"additional_info"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255)" json:"product_name_snapshot"`
	HppSnapshot         decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"hpp_snapshot"`
	UnitSnapshot        string          `gorm:"type:varchar(50)" json:"unit_snapshot"`
	QtyOut              int             `gorm:"not null" json:"qty_out"`
	HandledByID         uuid.UUID       `gorm:"column:handled_by;type:uuid;not null" json:"handled_by"`
	LocationID          *uuid.UUID      `gorm:"type:uuid" json:"location_id"`
	TotalHpp            decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_hpp"`

	// Relasi, resolved on read only
	NoteType  *NoteType        `gorm:"foreignKey:NoteTypeID" json:"-"`
	Customer  *Customer        `gorm:"foreignKey:CustomerID" json:"-"`
	Product   *Product         `gorm:"foreignKey:ProductID" json:"-"`
	HandledBy *User            `gorm:"foreignKey:HandledByID" json:"-"`
	Location  *StorageLocation `gorm:"foreignKey:LocationID" json:"-"`
}

func (GoodsOut) TableName() string { return "barang_keluar" }

// SnapshotFrom freezes the product's current name, cost and unit.
func (g *GoodsOut) SnapshotFrom(p *Product) {
	g.ProductID = p.ID
	g.ProductNameSnapshot = p.ProductName
	g.HppSnapshot = p.HppPerPiece
	g.UnitSnapshot = p.Unit
}

// RecomputeTotal sets TotalHpp = HppSnapshot * QtyOut.
func (g *GoodsOut) RecomputeTotal() {
	g.TotalHpp = g.HppSnapshot.Mul(decimal.NewFromInt(int64(g.QtyOut)))
}

type GoodsOutResponse struct {
	ID                  uuid.UUID             `json:"id"`
	Date                time.Time             `json:"date"`
	NoteType            Ref[NoteType]         `json:"note_type"`
	Customer            *Ref[Customer]        `json:"customer"`
	NoteNumber          string                `json:"note_number"`
	AdditionalInfo      *string               `json:"additional_info"`
	Product             Ref[Product]          `json:"product"`
	ProductNameSnapshot string                `json:"product_name_snapshot"`
	HppSnapshot         decimal.Decimal       `json:"hpp_snapshot"`
	UnitSnapshot        string                `json:"unit_snapshot"`
	QtyOut              int                   `json:"qty_out"`
	HandledBy           Ref[UserResponse]     `json:"handled_by"`
	Location            *Ref[StorageLocation] `json:"location"`
	TotalHpp            decimal.Decimal       `json:"total_hpp"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

func (g *GoodsOut) ToResponse() GoodsOutResponse {
	return GoodsOutResponse{
		ID:                  g.ID,
		Date:                g.Date,
		NoteType:            NewRef(g.NoteTypeID, g.NoteType),
		Customer:            NewOptionalRef(g.CustomerID, g.Customer),
		NoteNumber:          g.NoteNumber,
		AdditionalInfo:      g.AdditionalInfo,
		Product:             NewRef(g.ProductID, g.Product),
		ProductNameSnapshot: g.ProductNameSnapshot,
		HppSnapshot:         g.HppSnapshot,
		UnitSnapshot:        g.UnitSnapshot,
		QtyOut:              g.QtyOut,
		HandledBy:           NewRef(g.HandledByID, userResponse(g.HandledBy)),
		Location:            NewOptionalRef(g.LocationID, g.Location),
		TotalHpp:            g.TotalHpp,
		CreatedAt:           g.CreatedAt,
		UpdatedAt:           g.UpdatedAt,
	}
}
