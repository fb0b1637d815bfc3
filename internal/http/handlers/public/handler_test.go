package public_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/megano-shop/internal/config"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/provider"
	"github.com/megano-shop/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupAPITest 起一个完整的内存版 API：独立 sqlite、容器与路由
func setupAPITest(t *testing.T, name string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT: config.JWTConfig{
			SecretKey:   "api-test-secret",
			ExpireHours: 1,
			CookieName:  "megano_token",
		},
		Session: config.SessionConfig{CookieName: "basket_session", MaxAgeDays: 30},
	}
	container := provider.NewContainer(cfg)
	return router.SetupRouter(cfg, container), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, count int) models.Product {
	t.Helper()

	product := models.Product{CategoryID: 1, Name: name, Price: models.NewMoneyFromFloat(price), Count: count}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestBasketLifecycleOverHTTP(t *testing.T) {
	engine, db := setupAPITest(t, "api_basket")
	product := seedProduct(t, db, "Nebula X2", 499.00, 10)

	// 首次加购：会话 Cookie 作为副作用下发
	w := doJSON(t, engine, http.MethodPost, "/api/basket", fmt.Sprintf(`{"id":%d,"count":2}`, product.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add to basket want 200 got %d body=%s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "basket_session" {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("first basket call should set the session cookie")
	}

	var resp struct {
		Items []struct {
			ID    uint    `json:"id"`
			Count int     `json:"count"`
			Price float64 `json:"price"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal basket failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Count != 2 || resp.Items[0].Price != 499.00 {
		t.Fatalf("basket item want count=2 price=499, got %+v", resp.Items)
	}

	// 同一会话再次加购同商品：数量合并
	w = doJSON(t, engine, http.MethodPost, "/api/basket", fmt.Sprintf(`{"id":%d,"count":1}`, product.ID), []*http.Cookie{sessionCookie})
	if w.Code != http.StatusOK {
		t.Fatalf("merge add want 200 got %d", w.Code)
	}
	resp.Items = nil
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal basket failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Count != 3 {
		t.Fatalf("merged basket want one line count=3, got %+v", resp.Items)
	}

	// 减购到零：整行删除
	w = doJSON(t, engine, http.MethodDelete, "/api/basket", fmt.Sprintf(`{"id":%d,"count":3}`, product.ID), []*http.Cookie{sessionCookie})
	if w.Code != http.StatusOK {
		t.Fatalf("remove want 200 got %d", w.Code)
	}
	resp.Items = nil
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal basket failed: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("basket should be empty, got %+v", resp.Items)
	}

	// 清空后同一商品可以立即重新加购
	w = doJSON(t, engine, http.MethodPost, "/api/basket", fmt.Sprintf(`{"id":%d,"count":1}`, product.ID), []*http.Cookie{sessionCookie})
	if w.Code != http.StatusOK {
		t.Fatalf("re-add after removal want 200 got %d body=%s", w.Code, w.Body.String())
	}
	resp.Items = nil
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal basket failed: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Count != 1 {
		t.Fatalf("re-added basket want one line count=1, got %+v", resp.Items)
	}

	// 未知商品 404
	w = doJSON(t, engine, http.MethodPost, "/api/basket", `{"id":4242,"count":1}`, []*http.Cookie{sessionCookie})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown product want 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error"`) {
		t.Fatalf("failure body must carry error field, got %s", w.Body.String())
	}

	// 非法数量 400
	w = doJSON(t, engine, http.MethodPost, "/api/basket", fmt.Sprintf(`{"id":%d,"count":0}`, product.ID), []*http.Cookie{sessionCookie})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero count want 400 got %d", w.Code)
	}
}

func TestOrderCreationAcceptsBothBodyShapes(t *testing.T) {
	engine, db := setupAPITest(t, "api_orders")
	a := seedProduct(t, db, "Product A", 10.00, 50)
	b := seedProduct(t, db, "Product B", 5.50, 50)

	// 对象形态
	body := fmt.Sprintf(`{"products":[{"id":%d,"count":2},{"id":%d,"count":1}],"fullName":"Alice","city":"Riga","address":"Main st 1"}`, a.ID, b.ID)
	w := doJSON(t, engine, http.MethodPost, "/api/orders", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		OrderID   uint   `json:"orderId"`
		Status    string `json:"status"`
		DetailURL string `json:"detailUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response failed: %v", err)
	}
	if created.OrderID == 0 || created.Status != "created" {
		t.Fatalf("create response want orderId and status=created, got %+v", created)
	}
	if created.DetailURL != fmt.Sprintf("/order/%d", created.OrderID) {
		t.Fatalf("detailUrl want /order/%d got %s", created.OrderID, created.DetailURL)
	}

	// 裸数组形态
	w = doJSON(t, engine, http.MethodPost, "/api/orders", fmt.Sprintf(`[{"id":%d,"count":1,"price":10.00}]`, a.ID), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("bare-array create want 201 got %d body=%s", w.Code, w.Body.String())
	}

	// 订单详情：金额为数字、创建时间为分钟精度格式
	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/api/order/%d", created.OrderID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("order detail want 200 got %d", w.Code)
	}
	var detail struct {
		ID        uint    `json:"id"`
		CreatedAt string  `json:"createdAt"`
		TotalCost float64 `json:"totalCost"`
		Status    string  `json:"status"`
		FullName  string  `json:"fullName"`
		Products  []struct {
			ID    uint    `json:"id"`
			Count int     `json:"count"`
			Price float64 `json:"price"`
		} `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal detail failed: %v", err)
	}
	if detail.TotalCost != 25.50 {
		t.Fatalf("totalCost want 25.50 got %v", detail.TotalCost)
	}
	if detail.FullName != "Alice" || detail.Status != "accepted" {
		t.Fatalf("detail fields wrong: %+v", detail)
	}
	if len(detail.Products) != 2 || detail.Products[0].Count != 2 {
		t.Fatalf("detail products want 2 lines first count=2, got %+v", detail.Products)
	}
	if _, err := time.Parse("2006-01-02 15:04", detail.CreatedAt); err != nil {
		t.Fatalf("createdAt %q not in YYYY-MM-DD HH:MM format: %v", detail.CreatedAt, err)
	}

	// 引用不存在商品：404 且报文带具体商品 ID，整单不落库
	w = doJSON(t, engine, http.MethodPost, "/api/orders", `[{"id":31337,"count":1}]`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing product want 404 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "31337") {
		t.Fatalf("error must name the missing product id, got %s", w.Body.String())
	}

	// 状态更新
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/order/%d", created.OrderID), `{"status":"completed"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status update want 200 got %d", w.Code)
	}
	var statusResp struct {
		OrderID   uint   `json:"orderId"`
		Status    string `json:"status"`
		NewStatus string `json:"newStatus"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("unmarshal status response failed: %v", err)
	}
	if statusResp.Status != "success" || statusResp.NewStatus != "completed" {
		t.Fatalf("status response want success/completed got %+v", statusResp)
	}

	// 枚举外状态 400
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/order/%d", created.OrderID), `{"status":"shipped"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad status want 400 got %d", w.Code)
	}

	// 不存在的订单 404
	w = doJSON(t, engine, http.MethodGet, "/api/order/99999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing order want 404 got %d", w.Code)
	}
}

func TestPaymentOverHTTP(t *testing.T) {
	engine, db := setupAPITest(t, "api_payment")
	a := seedProduct(t, db, "Product A", 10.00, 50)

	w := doJSON(t, engine, http.MethodPost, "/api/orders", fmt.Sprintf(`[{"id":%d,"count":2}]`, a.ID), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order want 201 got %d", w.Code)
	}
	var created struct {
		OrderID uint `json:"orderId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	// 支付状态查询
	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/api/payment/%d", created.OrderID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("payment status want 200 got %d", w.Code)
	}
	var statusResp struct {
		OrderID    uint    `json:"orderId"`
		Status     string  `json:"status"`
		TotalCost  float64 `json:"totalCost"`
		PaymentURL string  `json:"paymentUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &statusResp); err != nil {
		t.Fatalf("unmarshal payment status failed: %v", err)
	}
	if statusResp.Status != "accepted" || statusResp.TotalCost != 20.00 {
		t.Fatalf("payment status fields wrong: %+v", statusResp)
	}

	// 非法卡号 400，无副作用
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/payment/%d", created.OrderID),
		`{"number":"123","name":"ALICE","month":"12","year":"2030","code":"123"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid card want 400 got %d", w.Code)
	}

	// 有效提交 200，订单进入 processing
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/payment/%d", created.OrderID),
		`{"number":"1234567812345678","name":"ALICE","month":"12","year":"2030","code":"123"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("valid payment want 200 got %d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"payment_processing"`) {
		t.Fatalf("payment response want payment_processing got %s", w.Body.String())
	}

	// 重复提交 409
	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/payment/%d", created.OrderID),
		`{"number":"1234567812345678","name":"ALICE","month":"12","year":"2030","code":"123"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("resubmission want 409 got %d", w.Code)
	}

	var payment models.Payment
	if err := db.Where("order_id = ?", created.OrderID).First(&payment).Error; err != nil {
		t.Fatalf("payment row missing: %v", err)
	}
	if payment.Amount.String() != "20.00" {
		t.Fatalf("payment amount want 20.00 got %s", payment.Amount.String())
	}
}

func TestAuthAndProfileOverHTTP(t *testing.T) {
	engine, _ := setupAPITest(t, "api_auth")

	w := doJSON(t, engine, http.MethodPost, "/api/sign-up", `{"name":"Alice","username":"alice","password":"s3cret-pass"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign up want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var signUp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signUp); err != nil {
		t.Fatalf("unmarshal sign-up failed: %v", err)
	}
	if signUp.Token == "" {
		t.Fatalf("sign up should issue a token")
	}

	// 未登录访问 profile：401
	w = doJSON(t, engine, http.MethodGet, "/api/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile want 401 got %d", w.Code)
	}

	// Bearer Token 访问
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signUp.Token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile want 200 got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"fullName":"Alice"`) {
		t.Fatalf("profile should carry full name, got %s", rec.Body.String())
	}

	// 重复用户名 409
	w = doJSON(t, engine, http.MethodPost, "/api/sign-up", `{"username":"alice","password":"other"}`, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate sign up want 409 got %d", w.Code)
	}

	// 错误密码 401
	w = doJSON(t, engine, http.MethodPost, "/api/sign-in", `{"username":"alice","password":"wrong"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password want 401 got %d", w.Code)
	}
}

func TestCatalogBrowseOverHTTP(t *testing.T) {
	engine, db := setupAPITest(t, "api_catalog")
	cheap := seedProduct(t, db, "Volt Charger", 29.90, 5)
	mid := seedProduct(t, db, "Nebula X2", 499.00, 0)
	dear := seedProduct(t, db, "Aurora Book", 1099.99, 3)
	if err := db.Model(&models.Product{}).Where("id = ?", cheap.ID).Update("free_delivery", true).Error; err != nil {
		t.Fatalf("mark free delivery failed: %v", err)
	}

	type catalogResp struct {
		Items []struct {
			ID    uint    `json:"id"`
			Price float64 `json:"price"`
		} `json:"items"`
		CurrentPage int `json:"currentPage"`
		LastPage    int `json:"lastPage"`
	}
	fetch := func(path string) catalogResp {
		t.Helper()
		w := doJSON(t, engine, http.MethodGet, path, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("catalog %s want 200 got %d body=%s", path, w.Code, w.Body.String())
		}
		var resp catalogResp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal catalog failed: %v", err)
		}
		return resp
	}

	// 无过滤：全部商品，单页
	resp := fetch("/api/catalog")
	if len(resp.Items) != 3 || resp.CurrentPage != 1 || resp.LastPage != 1 {
		t.Fatalf("unfiltered catalog want 3 items on one page, got %+v", resp)
	}

	// 价格上限过滤 + 升序价格排序
	resp = fetch("/api/catalog?filter[maxPrice]=500&sort=price&sortType=inc")
	if len(resp.Items) != 2 {
		t.Fatalf("maxPrice filter want 2 items got %+v", resp.Items)
	}
	if resp.Items[0].ID != cheap.ID || resp.Items[1].ID != mid.ID {
		t.Fatalf("price-sorted filter want [%d %d] got %+v", cheap.ID, mid.ID, resp.Items)
	}

	// 有货过滤剔除零库存
	resp = fetch("/api/catalog?filter[available]=true")
	if len(resp.Items) != 2 {
		t.Fatalf("available filter want 2 items got %+v", resp.Items)
	}
	for _, item := range resp.Items {
		if item.ID == mid.ID {
			t.Fatalf("out-of-stock product leaked into available filter: %+v", resp.Items)
		}
	}

	// 免运费过滤
	resp = fetch("/api/catalog?filter[freeDelivery]=true")
	if len(resp.Items) != 1 || resp.Items[0].ID != cheap.ID {
		t.Fatalf("freeDelivery filter want only %d got %+v", cheap.ID, resp.Items)
	}

	// 名称子串过滤
	resp = fetch("/api/catalog?filter[name]=Nebula")
	if len(resp.Items) != 1 || resp.Items[0].ID != mid.ID {
		t.Fatalf("name filter want only %d got %+v", mid.ID, resp.Items)
	}

	// 分页：每页 1 条、第 2 页、价格升序
	resp = fetch("/api/catalog?limit=1&currentPage=2&sort=price&sortType=inc")
	if resp.CurrentPage != 2 || resp.LastPage != 3 {
		t.Fatalf("pagination want page 2 of 3 got %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != mid.ID {
		t.Fatalf("page 2 by ascending price want %d got %+v", mid.ID, resp.Items)
	}
	resp = fetch("/api/catalog?limit=1&currentPage=3&sort=price&sortType=inc")
	if len(resp.Items) != 1 || resp.Items[0].ID != dear.ID {
		t.Fatalf("page 3 by ascending price want %d got %+v", dear.ID, resp.Items)
	}
}

func TestBannersOverHTTP(t *testing.T) {
	engine, db := setupAPITest(t, "api_banners")
	for i := 0; i < 5; i++ {
		p := seedProduct(t, db, fmt.Sprintf("Product %d", i), 10.00, 5)
		if err := db.Model(&models.Product{}).Where("id = ?", p.ID).Update("sort_index", i).Error; err != nil {
			t.Fatalf("set sort index failed: %v", err)
		}
	}

	w := doJSON(t, engine, http.MethodGet, "/api/banners", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("banners want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var banners []struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &banners); err != nil {
		t.Fatalf("unmarshal banners failed: %v", err)
	}
	if len(banners) != 3 {
		t.Fatalf("banners want 3 items got %d", len(banners))
	}
}

func TestPasswordChangeOverHTTP(t *testing.T) {
	engine, _ := setupAPITest(t, "api_password")

	w := doJSON(t, engine, http.MethodPost, "/api/sign-up", `{"name":"Alice","username":"alice","password":"old-pass"}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("sign up want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var signUp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signUp); err != nil {
		t.Fatalf("unmarshal sign-up failed: %v", err)
	}

	doAuthed := func(body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/profile/password", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+signUp.Token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	// 未登录 401
	w = doJSON(t, engine, http.MethodPost, "/api/profile/password", `{"currentPassword":"old-pass","newPassword":"new-pass"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous password change want 401 got %d", w.Code)
	}

	// 当前密码错误 400
	rec := doAuthed(`{"currentPassword":"wrong","newPassword":"new-pass"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("wrong current password want 400 got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "incorrect current password") {
		t.Fatalf("error body want incorrect current password, got %s", rec.Body.String())
	}

	// 正确修改 200
	rec = doAuthed(`{"currentPassword":"old-pass","newPassword":"new-pass"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("password change want 200 got %d body=%s", rec.Code, rec.Body.String())
	}

	// 旧密码失效，新密码可登录
	w = doJSON(t, engine, http.MethodPost, "/api/sign-in", `{"username":"alice","password":"old-pass"}`, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password should be rejected, got %d", w.Code)
	}
	w = doJSON(t, engine, http.MethodPost, "/api/sign-in", `{"username":"alice","password":"new-pass"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new password sign-in want 200 got %d body=%s", w.Code, w.Body.String())
	}
}
