package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"chatterbox_service/internal/member/domain"
)

// ErrMemberNotFound no member matches the query
var ErrMemberNotFound = errors.New("no member found with given criteria")

// MemberRepository definition get Member info
type MemberRepository interface {
	CreateMember(ctx context.Context, member *domain.Member) error
	UpdateMemberStatus(ctx context.Context, member *domain.Member) error
	UpdateProfile(ctx context.Context, memberID, firstName, lastName string) error
	UpdatePassword(ctx context.Context, memberID, hashedPassword string) error
	UpdateProfilePicture(ctx context.Context, memberID, objectName string) error
	UpdateLastLogin(ctx context.Context, memberID string, at time.Time) error
	FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error)
	SearchMembers(ctx context.Context, keyword, excludeMemberID string, limit int) ([]domain.Member, error)
}

type memberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository create a MemberRepository
func NewMemberRepository(db *pgxpool.Pool) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) CreateMember(ctx context.Context, member *domain.Member) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO member(member_id, first_name, last_name, email, password) VALUES ($1, $2, $3, $4, $5)",
		member.MemberID, member.FirstName, member.LastName, member.Email, member.Password)
	return err
}

func (r *memberRepository) UpdateMemberStatus(ctx context.Context, member *domain.Member) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET status = $1 WHERE member_id = $2", member.Status, member.MemberID)
	return err
}

func (r *memberRepository) UpdateProfile(ctx context.Context, memberID, firstName, lastName string) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET first_name = $1, last_name = $2 WHERE member_id = $3",
		firstName, lastName, memberID)
	return err
}

func (r *memberRepository) UpdatePassword(ctx context.Context, memberID, hashedPassword string) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET password = $1 WHERE member_id = $2", hashedPassword, memberID)
	return err
}

func (r *memberRepository) UpdateProfilePicture(ctx context.Context, memberID, objectName string) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET profile_picture = $1 WHERE member_id = $2", objectName, memberID)
	return err
}

func (r *memberRepository) UpdateLastLogin(ctx context.Context, memberID string, at time.Time) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET last_login_at = $1 WHERE member_id = $2", at, memberID)
	return err
}

func (r *memberRepository) FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error) {
	queryStr := "SELECT id, member_id, first_name, last_name, email, password, COALESCE(profile_picture, ''), status FROM member WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if memberQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *memberQuery.Email)
		paramCount++
	}
	if memberQuery.MemberID != nil {
		queryStr += fmt.Sprintf(" AND member_id = $%d", paramCount)
		params = append(params, *memberQuery.MemberID)
		paramCount++
	}
	if memberQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *memberQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var member domain.Member
	err := row.Scan(&member.ID, &member.MemberID, &member.FirstName, &member.LastName,
		&member.Email, &member.Password, &member.ProfilePicture, &member.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) SearchMembers(ctx context.Context, keyword, excludeMemberID string, limit int) ([]domain.Member, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, member_id, first_name, last_name, email, COALESCE(profile_picture, ''), status
		FROM member
		WHERE member_id <> $1
		  AND status <> $2
		  AND (first_name ILIKE $3 OR last_name ILIKE $3 OR email ILIKE $3)
		ORDER BY first_name, last_name
		LIMIT $4`,
		excludeMemberID, domain.MemberStatusDelete, "%"+keyword+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.MemberID, &m.FirstName, &m.LastName,
			&m.Email, &m.ProfilePicture, &m.Status); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
