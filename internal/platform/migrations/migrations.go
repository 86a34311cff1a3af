package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&userRecord{},
		&sessionRecord{},
		&settingRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	Name          string          `gorm:"column:name;index:idx_products_name"`
	Description   string          `gorm:"column:description"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(18,2)"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Category      string          `gorm:"column:category;type:varchar(32);index"`
	ImageURLs     pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	ModifiedAt    time.Time       `gorm:"column:modified_at"`
	Deleted       bool            `gorm:"column:deleted;index"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	CustomerID  int64           `gorm:"column:customer_id;index"`
	OrderDate   time.Time       `gorm:"column:order_date"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2)"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	ModifiedAt  time.Time       `gorm:"column:modified_at"`
	Deleted     bool            `gorm:"column:deleted;index"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index:idx_order_lines_order_id"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2)"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	Username   string    `gorm:"column:username;uniqueIndex"`
	Email      string    `gorm:"column:email"`
	Password   string    `gorm:"column:password_hash"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	ModifiedAt time.Time `gorm:"column:modified_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

// Setting schema mirrors the settings Postgres adapter.
type settingRecord struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	MaintenanceMode bool      `gorm:"column:maintenance_mode"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	ModifiedAt      time.Time `gorm:"column:modified_at"`
}

func (settingRecord) TableName() string { return "settings" }
