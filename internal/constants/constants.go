package constants

// 订单状态常量
const (
	OrderStatusAccepted   = "accepted"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
)

// 配送类型常量
const (
	DeliveryTypeOrdinary = "ordinary"
	DeliveryTypeExpress  = "express"
	DeliveryTypeFree     = "free"
)

// 支付方式常量
const (
	PaymentTypeOnline         = "online"
	PaymentTypeCashOnDelivery = "cash-on-delivery"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// 下单缺省值（允许不完整的收货信息先行下单，后续修正）
const (
	DefaultFullName = "Not specified"
	DefaultEmail    = "no-email@example.com"
	DefaultPhone    = "70000000000"
	DefaultCity     = "Not specified"
	DefaultAddress  = "Not specified"
)

// 时间格式常量
const (
	OrderCreatedAtLayout = "2006-01-02 15:04"
)
