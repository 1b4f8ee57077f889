package constants

// Vai trò
const (
	ROLE_ADMIN    = "admin"
	ROLE_CUSTOMER = "customer"
)

// Trạng thái đặt vé
const (
	BOOKING_PENDING   = "Pending"
	BOOKING_CONFIRMED = "Confirmed"
	BOOKING_CANCELLED = "Cancelled"
	BOOKING_COMPLETED = "Completed"
)

// Trạng thái thanh toán
const (
	PAYMENT_PENDING   = "Pending"
	PAYMENT_COMPLETED = "Completed"
	PAYMENT_FAILED    = "Failed"
	PAYMENT_REFUNDED  = "Refunded"
)

// Phương thức thanh toán
const (
	PAYMENT_METHOD_CASH = "Cash"
	PAYMENT_METHOD_CARD = "Card"
)

// Trạng thái suất chiếu
const (
	SHOWTIME_SCHEDULED = "Scheduled"
	SHOWTIME_COMPLETED = "Completed"
	SHOWTIME_CANCELLED = "Cancelled"
)

// Trạng thái ghế
const (
	SEAT_ACTIVE      = "active"
	SEAT_RESERVED    = "reserved"
	SEAT_MAINTENANCE = "maintenance"
)

// Thông báo lỗi chung
const (
	ERROR_INPUT                = "Dữ liệu đầu vào không hợp lệ"
	ERROR_INTERNAL_ERROR       = "Lỗi hệ thống, vui lòng thử lại sau"
	ERROR_CREATE               = "Không thể tạo bản ghi"
	ERROR_UPDATE               = "Không thể cập nhật bản ghi"
	ERROR_DELETE               = "Không thể xoá bản ghi"
	NOT_FOUND_RECORDS          = "Không tìm thấy dữ liệu"
	NOT_ADMIN                  = "Bạn không có quyền thực hiện thao tác này"
	NOT_LOGGED_IN              = "Vui lòng đăng nhập"
	DATA_INPUT_IS_NOT_NUMBER   = "Tham số phải là số"
	INVALID_EMAIL              = "Email không hợp lệ"
	INVALID_PASSWORD           = "Mật khẩu không đúng"
	EMAIL_EXISTS               = "Email đã được sử dụng"
	CAN_NOT_HASH_PASSWORD      = "Không thể mã hoá mật khẩu"
	ERROR_PARSE_DATA_TO_LOCALS = "Lỗi đọc dữ liệu đã xác thực"
)

// Thông báo nghiệp vụ đặt vé
const (
	CUSTOMER_NOT_FOUND        = "Khách hàng không tồn tại"
	MOVIE_NOT_FOUND           = "Phim không tồn tại"
	THEATER_NOT_FOUND         = "Rạp không tồn tại"
	HALL_NOT_FOUND            = "Phòng chiếu không tồn tại"
	SHOWTIME_NOT_FOUND        = "Suất chiếu không tồn tại"
	SHOWTIME_HAS_BOOKINGS     = "Suất chiếu còn đơn đặt vé hiệu lực"
	SHOWTIME_NOT_DELETED      = "Suất chiếu chưa bị xoá, không thể khôi phục"
	SHOWTIME_NOT_BOOKABLE     = "Suất chiếu không nhận đặt vé"
	SHOWTIME_OVERLAP          = "Suất chiếu bị trùng giờ với suất khác trong phòng"
	SEAT_NOT_FOUND            = "Ghế không tồn tại"
	SEAT_WRONG_HALL           = "Ghế không thuộc phòng chiếu của suất này"
	SEAT_ALREADY_BOOKED       = "Ghế đã có người đặt"
	BOOKING_NOT_FOUND         = "Đơn đặt vé không tồn tại"
	BOOKING_ALREADY_CANCELLED = "Đơn đặt vé đã bị hủy trước đó"
	BOOKING_NOT_OWNER         = "Đơn đặt vé không thuộc về bạn"
	BOOKING_NOT_DELETED       = "Đơn đặt vé chưa bị xoá, không thể khôi phục"
)
