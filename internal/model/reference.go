package model

// Reference data used by the ledgers.

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_name,where:deleted_at IS NULL" json:"name"`
}

func (Category) TableName() string { return "categories" }

// StorageLocation is a "lokasi simpan".
type StorageLocation struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

func (StorageLocation) TableName() string { return "lokasi_simpan" }

// NoteType is a "tipe nota", e.g. purchase note vs. sales note.
type NoteType struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

func (NoteType) TableName() string { return "tipe_nota" }

func (c *Category) GetName() string         { return c.Name }
func (c *Category) SetName(n string)        { c.Name = n }
func (l *StorageLocation) GetName() string  { return l.Name }
func (l *StorageLocation) SetName(n string) { l.Name = n }
func (n *NoteType) GetName() string         { return n.Name }
func (n *NoteType) SetName(v string)        { n.Name = v }

type Supplier struct {
	BaseModel
	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Phone *string `gorm:"type:varchar(50)" json:"phone"`
}

func (Supplier) TableName() string { return "suppliers" }

type Customer struct {
	BaseModel
	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Email   *string `gorm:"type:varchar(255);uniqueIndex:idx_customers_email,where:deleted_at IS NULL" json:"email"`
	Phone   *string `gorm:"type:varchar(50)" json:"phone"`
	Address *string `gorm:"type:varchar(500)" json:"address"`
}

func (Customer) TableName() string { return "customers" }

type Vendor struct {
	BaseModel
	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Email   *string `gorm:"type:varchar(255);uniqueIndex:idx_vendors_email,where:deleted_at IS NULL" json:"email"`
	Phone   *string `gorm:"type:varchar(50)" json:"phone"`
	Address *string `gorm:"type:varchar(500)" json:"address"`
}

func (Vendor) TableName() string { return "vendors" }

func (c *Customer) SetContact(name string, email, phone, address *string) {
	c.Name, c.Email, c.Phone, c.Address = name, email, phone, address
}

func (c *Customer) Contact() (name string, email, phone, address *string) {
	return c.Name, c.Email, c.Phone, c.Address
}

func (v *Vendor) SetContact(name string, email, phone, address *string) {
	v.Name, v.Email, v.Phone, v.Address = name, email, phone, address
}

func (v *Vendor) Contact() (name string, email, phone, address *string) {
	return v.Name, v.Email, v.Phone, v.Address
}
