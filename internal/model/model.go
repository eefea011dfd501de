package model

// Wire types for the delivery API. Field tags follow the upstream JSON
// exactly: auth payloads are camelCase, everything else is snake_case.

type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleWorker     Role = "worker"
	RoleCourier    Role = "courier"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleWorker, RoleCourier:
		return true
	}
	return false
}

type AssemblyStatus string

const (
	AssemblyPending    AssemblyStatus = "pending"
	AssemblyInProgress AssemblyStatus = "in_progress"
	AssemblyCompleted  AssemblyStatus = "completed"
	AssemblyCancelled  AssemblyStatus = "cancelled"
)

type DeliveryStatus string

const (
	DeliveryPending     DeliveryStatus = "pending"
	DeliveryInProgress  DeliveryStatus = "in_progress"
	DeliveryExpectation DeliveryStatus = "expectation"
	DeliveryCompleted   DeliveryStatus = "completed"
	DeliveryCancelled   DeliveryStatus = "cancelled"
)

type DeliveryType string

const (
	DeliveryFast       DeliveryType = "fast"
	DeliveryStandard   DeliveryType = "standard"
	DeliverySelfpickup DeliveryType = "selfpickup"
)

func ValidDeliveryType(t DeliveryType) bool {
	switch t {
	case DeliveryFast, DeliveryStandard, DeliverySelfpickup:
		return true
	}
	return false
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      Role   `json:"role"`
	IsBlocked bool   `json:"isBlocked"`
	IsDeleted bool   `json:"isDeleted"`
}

// AssemblyListItem is one row of GET /orders/assembly/{storeId}.
type AssemblyListItem struct {
	ID              int64          `json:"id"`
	OrderNumber     string         `json:"order_number"`
	IsOverdue       bool           `json:"is_overdue"`
	AssemblyStatus  AssemblyStatus `json:"assembly_status"`
	AssemblyDeadline string        `json:"assembly_deadline"`
	CountProducts   int            `json:"count_products"`
	TotalWeight     string         `json:"total_weight"`
	DeliveryType    DeliveryType   `json:"delivery_type"`
	TimeDiffMinutes int            `json:"time_difference_minutes"`
	CreatedAt       string         `json:"created_at"`
}

// AssemblyOrder is the detail projection of GET /orders/assembly/order/{id}.
type AssemblyOrder struct {
	ID                int64          `json:"id"`
	OrderNumber       string         `json:"order_number"`
	DeliveryType      DeliveryType   `json:"delivery_type"`
	TotalWeight       float64        `json:"total_weight"`
	TotalPrice        float64        `json:"total_price"`
	CountProducts     int            `json:"count_products"`
	IsOverdue         bool           `json:"is_overdue"`
	TimeDiffMinutes   int            `json:"time_difference_minutes"`
	AssemblyDeadline  string         `json:"assembly_deadline"`
	AssemblyStatus    AssemblyStatus `json:"assembly_status"`
	AssemblyWorkerID  int64          `json:"assembly_worker_id"`
	DeliveryWorkerID  int64          `json:"delivery_worker_id"`
	ProductIDs        []int64        `json:"product_ids"`
	Paid              bool           `json:"paid"`
	Comment           *string        `json:"comment"`
	FirstnameCustomer string         `json:"firstname_customer"`
	LastnameCustomer  string         `json:"lastname_customer"`
	PhoneCustomer     string         `json:"phone_customer"`
	FirstnameDeliv    string         `json:"firstname_deliv"`
	LastnameDeliv     string         `json:"lastname_deliv"`
	PhoneDeliv        string         `json:"phone_deliv"`
	ProductsCount     int            `json:"products_count"`
	ProductsDetails   []ProductLine  `json:"products_details"`
	CreatedAt         string         `json:"created_at"`
}

// DeliveryListItem is one row of GET /orders/delivery/{storeId}.
type DeliveryListItem struct {
	ID               int64          `json:"id"`
	OrderNumber      string         `json:"order_number"`
	IsOverdue        bool           `json:"is_overdue"`
	DeliveryDeadline string         `json:"delivery_deadline"`
	DeliveryStatus   DeliveryStatus `json:"delivery_status"`
	CountProducts    int            `json:"count_products"`
	TotalWeight      string         `json:"total_weight"`
	DeliveryType     DeliveryType   `json:"delivery_type"`
	TimeDiffMinutes  int            `json:"time_difference_minutes"`
	CreatedAt        string         `json:"created_at"`
}

// DeliveryOrder is the detail projection of GET /orders/delivery/order/{id}.
type DeliveryOrder struct {
	ID                  int64          `json:"id"`
	OrderNumber         string         `json:"order_number"`
	DeliveryType        DeliveryType   `json:"delivery_type"`
	TotalWeight         float64        `json:"total_weight"`
	TotalPrice          float64        `json:"total_price"`
	CountProducts       int            `json:"count_products"`
	IsOverdue           bool           `json:"is_overdue"`
	TimeDiffMinutes     int            `json:"time_difference_minutes"`
	DeliveryDeadline    string         `json:"delivery_deadline"`
	DeliveryStatus      DeliveryStatus `json:"delivery_status"`
	AssemblyStatus      AssemblyStatus `json:"assembly_status"`
	AssemblyWorkerID    *int64         `json:"assembly_worker_id"`
	AssemblyCompletedAt *string        `json:"assembly_completed_at"`
	ProductIDs          []int64        `json:"product_ids"`
	Paid                bool           `json:"paid"`
	Comment             *string        `json:"comment"`
	FirstnameCustomer   string         `json:"firstname_customer"`
	LastnameCustomer    string         `json:"lastname_customer"`
	PhoneCustomer       string         `json:"phone_customer"`
	FirstnameAssemb     string         `json:"firstname_assemb"`
	LastnameAssemb      string         `json:"lastname_assemb"`
	PhoneAssemb         string         `json:"phone_assemb"`
	ProductsCount       int            `json:"products_count"`
	Address             string         `json:"address"`
	Latitude            float64        `json:"latitude"`
	Longitude           float64        `json:"longitude"`
	Apartment           string         `json:"apartment"`
	Entrance            string         `json:"entrance"`
	Floor               string         `json:"floor"`
	Intercom            string         `json:"intercom"`
	ProductsDetails     []ProductLine  `json:"products_details"`
	CreatedAt           string         `json:"created_at"`
}

// ProductLine is a product as it appears inside an order.
type ProductLine struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Count       int      `json:"count"`
	Price       float64  `json:"price"`
	Weight      float64  `json:"weight"`
	Article     string   `json:"article"`
	Images      []string `json:"images"`
	Barcode     string   `json:"barcode"`
	TotalPrice  float64  `json:"total_price"`
	TotalWeight float64  `json:"total_weight"`
}

// CreatedOrder is the projection returned by order create/update.
type CreatedOrder struct {
	ID               int64          `json:"id"`
	OrderNumber      string         `json:"orderNumber"`
	DeliveryType     DeliveryType   `json:"delivery_type"`
	AssemblyDeadline string         `json:"assembly_deadline"`
	AssemblyStatus   AssemblyStatus `json:"assembly_status"`
	TotalWeight      float64        `json:"total_weight"`
	CountProducts    int            `json:"count_products"`
	IsOverdue        bool           `json:"is_overdue"`
	CreatedAt        string         `json:"created_at"`
}

// Shift status is a bare boolean upstream: true is active, false is closed.
type Shift struct {
	ID             int64  `json:"id"`
	WorkerID       int64  `json:"worker_id"`
	StartedAt      string `json:"started_at"`
	EndedAt        string `json:"ended_at"`
	Status         bool   `json:"status"`
	CreatedAt      string `json:"created_at"`
	CurrentStoreID int64  `json:"current_store_id"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Phone          string `json:"phone"`
	Role           Role   `json:"role"`
	StoreName      string `json:"name"`
}

type Product struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Price   float64  `json:"price"`
	Weight  float64  `json:"weight"`
	Article string   `json:"article"`
	Barcode string   `json:"barcode"`
	Images  []string `json:"images"`
}

type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
