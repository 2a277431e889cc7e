package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"drawboard-backend/internal/auth"
	"drawboard-backend/internal/history"
	"drawboard-backend/internal/model"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/shape"
)

// RoomHandler 방 관리 핸들러
type RoomHandler struct {
	db       *gorm.DB
	history  history.Store
	presence *presence.Manager
}

// NewRoomHandler RoomHandler 생성. presence 는 nil 가능.
func NewRoomHandler(db *gorm.DB, hist history.Store, pres *presence.Manager) *RoomHandler {
	return &RoomHandler{db: db, history: hist, presence: pres}
}

// CreateRoomRequest 방 생성 요청
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// RoomResponse 방 응답
type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

// ShapeResponse 도형 한 건
type ShapeResponse struct {
	ID    string       `json:"id"`
	Shape *shape.Union `json:"shape"`
}

func toRoomResponse(room model.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		OwnerID:   room.OwnerID,
		CreatedAt: room.CreatedAt.Format(time.RFC3339),
	}
}

// CreateRoom 방 생성 (생성자는 자동으로 멤버)
func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	room := model.Room{
		Name:    req.Name,
		OwnerID: claims.UserID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		member := model.RoomMember{RoomID: room.ID, UserID: claims.UserID}
		return tx.Create(&member).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create room",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toRoomResponse(room))
}

// GetMyRooms 내가 속한 방 목록
func (h *RoomHandler) GetMyRooms(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	var rooms []model.Room
	err := h.db.
		Joins("JOIN room_members ON room_members.room_id = rooms.id").
		Where("room_members.user_id = ?", claims.UserID).
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "database error",
		})
	}

	out := make([]RoomResponse, len(rooms))
	for i, room := range rooms {
		out[i] = toRoomResponse(room)
	}
	return c.JSON(fiber.Map{"rooms": out})
}

// GetRoom 방 단건 조회 (멤버가 아니면 자동 가입)
func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	roomID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid room id",
		})
	}

	var room model.Room
	if err := h.db.First(&room, "id = ?", roomID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "room not found",
		})
	}

	// 링크 공유 기반 협업이라 조회 시점에 멤버로 등록
	member := model.RoomMember{RoomID: room.ID, UserID: claims.UserID}
	h.db.Where("room_id = ? AND user_id = ?", room.ID, claims.UserID).FirstOrCreate(&member)

	return c.JSON(toRoomResponse(room))
}

// GetRoomShapes 방의 전체 도형 이력 (부트스트랩용, 생성 순서대로)
func (h *RoomHandler) GetRoomShapes(c *fiber.Ctx) error {
	roomID := c.Params("id")

	records, err := h.history.List(c.Context(), roomID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to load shapes",
		})
	}

	shapes := make([]ShapeResponse, len(records))
	for i, rec := range records {
		shapes[i] = ShapeResponse{ID: rec.ID, Shape: shape.Wrap(rec.Shape)}
	}
	return c.JSON(fiber.Map{"shapes": shapes})
}

// GetRoomMembers 현재 접속 중인 멤버 (Redis presence 기반)
func (h *RoomHandler) GetRoomMembers(c *fiber.Ctx) error {
	if h.presence == nil {
		return c.JSON(fiber.Map{"members": []presence.Member{}})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	members, err := h.presence.Members(ctx, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load members",
		})
	}
	return c.JSON(fiber.Map{"members": members})
}
