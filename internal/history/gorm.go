package history

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"drawboard-backend/internal/model"
	"drawboard-backend/internal/shape"
)

// GormStore persists shapes to the shape_records table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Append 도형 저장 후 durable id 반환
func (s *GormStore) Append(ctx context.Context, roomID string, createdBy int64, sh shape.Shape) (string, error) {
	room, err := ParseID(roomID)
	if err != nil {
		return "", fmt.Errorf("append: %w", err)
	}
	data, err := shape.Encode(sh)
	if err != nil {
		return "", fmt.Errorf("append: encode shape: %w", err)
	}

	record := model.ShapeRecord{
		RoomID: room,
		Data:   string(data),
	}
	if createdBy > 0 {
		record.CreatedBy = &createdBy
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("append: insert shape record: %w", err)
	}
	return FormatID(record.ID), nil
}

// Update 도형 전체 교체
func (s *GormStore) Update(ctx context.Context, id string, sh shape.Shape) error {
	pk, err := ParseID(id)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	data, err := shape.Encode(sh)
	if err != nil {
		return fmt.Errorf("update: encode shape: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&model.ShapeRecord{}).
		Where("id = ?", pk).
		Update("data", string(data))
	if result.Error != nil {
		return fmt.Errorf("update: shape record %d: %w", pk, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update: shape record %d: %w", pk, ErrNotFound)
	}
	return nil
}

// Delete 도형 삭제 (없으면 no-op)
func (s *GormStore) Delete(ctx context.Context, id string) error {
	pk, err := ParseID(id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&model.ShapeRecord{}, pk).Error; err != nil {
		return fmt.Errorf("delete: shape record %d: %w", pk, err)
	}
	return nil
}

// List 방의 도형을 생성 순서대로 반환. 디코딩 실패한 행은 건너뛴다.
func (s *GormStore) List(ctx context.Context, roomID string) ([]Record, error) {
	room, err := ParseID(roomID)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	var rows []model.ShapeRecord
	if err := s.db.WithContext(ctx).
		Where("room_id = ?", room).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list: query shape records: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		sh, err := shape.Decode([]byte(row.Data))
		if err != nil {
			log.Printf("[History] ⚠️ corrupt shape record %d in room %d: %v", row.ID, room, err)
			continue
		}
		records = append(records, Record{ID: FormatID(row.ID), Shape: sh})
	}
	return records, nil
}
