// Package presence keeps a Redis view of who is currently in each room.
// Best-effort only: the relay works without it, drawing state never depends
// on it.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 멤버 키 TTL (Heartbeat는 이보다 짧은 주기로)
const memberTTL = 60 * time.Second

// Member Redis에 저장될 방 멤버 데이터
type Member struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	JoinedAt int64  `json:"joined_at"`
}

// Manager 방 presence 관리자
type Manager struct {
	client *redis.Client
}

// NewManager 생성자
func NewManager(addr string, password string, db int) *Manager {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Manager{client: rdb}
}

// NewManagerWithClient 기존 클라이언트 재사용 (health check 공유용)
func NewManagerWithClient(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Ping 연결 확인
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *Manager) roomKey(roomID string) string {
	return fmt.Sprintf("presence:room:%s", roomID)
}

func (m *Manager) memberKey(roomID string, userID int64) string {
	return fmt.Sprintf("presence:room:%s:user:%d", roomID, userID)
}

// Join 방 입장 기록. 방 멤버 집합 + TTL 있는 멤버 키 두 개를 쓴다.
func (m *Manager) Join(ctx context.Context, roomID string, userID int64, nickname string) error {
	data, err := json.Marshal(Member{
		UserID:   userID,
		Nickname: nickname,
		JoinedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	pipe := m.client.Pipeline()
	pipe.SAdd(ctx, m.roomKey(roomID), userID)
	pipe.Set(ctx, m.memberKey(roomID, userID), data, memberTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Leave 방 퇴장 기록
func (m *Manager) Leave(ctx context.Context, roomID string, userID int64) error {
	pipe := m.client.Pipeline()
	pipe.SRem(ctx, m.roomKey(roomID), userID)
	pipe.Del(ctx, m.memberKey(roomID, userID))
	_, err := pipe.Exec(ctx)
	return err
}

// Heartbeat 생존 신고 (TTL 연장). 키가 이미 만료됐으면 다시 Join 처리.
func (m *Manager) Heartbeat(ctx context.Context, roomID string, userID int64, nickname string) error {
	ok, err := m.client.Expire(ctx, m.memberKey(roomID, userID), memberTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return m.Join(ctx, roomID, userID, nickname)
	}
	return nil
}

// Members 방의 현재 멤버 조회. TTL이 만료된 유저는 집합에서도 지운다.
func (m *Manager) Members(ctx context.Context, roomID string) ([]Member, error) {
	ids, err := m.client.SMembers(ctx, m.roomKey(roomID)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Member{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf("presence:room:%s:user:%s", roomID, id)
	}

	results, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(results))
	for i, result := range results {
		if result == nil {
			// 만료된 멤버 정리
			m.client.SRem(ctx, m.roomKey(roomID), ids[i])
			continue
		}
		strVal, ok := result.(string)
		if !ok {
			continue
		}
		var member Member
		if err := json.Unmarshal([]byte(strVal), &member); err == nil {
			members = append(members, member)
		}
	}
	return members, nil
}
