package members

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveMemberOptions struct {
	ID    *int
	Email *string
}

type ListMembersOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RegisterMember(ctx context.Context, name, email string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, errcodes.ValidationError(`"name" is required`)
	}
	if email == "" {
		return nil, errcodes.ValidationError(`"email" is required`)
	}

	now := time.Now().UTC()
	member := &models.Member{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
		Email:     email,
	}

	_, err := svc.db.
		NewInsert().
		Model(member).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, emailConflict(err, email)
	}
	return member, nil
}

func (svc *Service) RetrieveMember(ctx context.Context, opts RetrieveMemberOptions) (*models.Member, error) {
	member := &models.Member{}

	q := svc.db.
		NewSelect().
		Model(member)

	if opts.ID != nil {
		q = q.Where("m.id = ?", *opts.ID)
	}
	if opts.Email != nil {
		q = q.Where("m.email = ?", *opts.Email)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Member")
		}
		return nil, errors.WithStack(err)
	}

	return member, nil
}

func (svc *Service) ListMembers(ctx context.Context, opts ListMembersOptions) ([]*models.Member, error) {
	var members []*models.Member

	q := svc.db.
		NewSelect().
		Model(&members).
		Order("m.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return members, nil
}

// UpdateMemberEmail overwrites a member's email. Uniqueness is left to the
// store's constraint.
func (svc *Service) UpdateMemberEmail(ctx context.Context, memberID int, email string) (*models.Member, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errcodes.ValidationError(`"email" is required`)
	}

	member, err := svc.RetrieveMember(ctx, RetrieveMemberOptions{ID: &memberID})
	if err != nil {
		return nil, err
	}

	member.Email = email
	member.UpdatedAt = time.Now().UTC()

	_, err = svc.db.
		NewUpdate().
		Model(member).
		Column("email", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, emailConflict(err, email)
	}
	return member, nil
}

// DeleteMember removes a member that has never borrowed anything. The
// reference check and the delete share one transaction.
func (svc *Service) DeleteMember(ctx context.Context, memberID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Member)(nil)).
			Where("m.id = ?", memberID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Member")
		}

		refs, err := tx.NewSelect().
			Model((*models.BorrowRecord)(nil)).
			Where("br.member_id = ?", memberID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if refs > 0 {
			return errcodes.ReferentialIntegrity("member", "borrow records")
		}

		_, err = tx.NewDelete().
			Model((*models.Member)(nil)).
			Where("id = ?", memberID).
			Exec(ctx)
		return errcodes.FromDB(err, "Member")
	})
}

// ShowMember resolves identifier as an email when it contains "@" and as a
// numeric id otherwise, then loads the member's borrow history, newest first.
func (svc *Service) ShowMember(ctx context.Context, identifier string) (*models.Member, []*models.BorrowRecord, error) {
	identifier = strings.TrimSpace(identifier)

	opts := RetrieveMemberOptions{}
	if strings.Contains(identifier, "@") {
		opts.Email = &identifier
	} else {
		id, err := strconv.Atoi(identifier)
		if err != nil {
			return nil, nil, errcodes.ValidationError(fmt.Sprintf("%q is neither a member id nor an email", identifier))
		}
		opts.ID = &id
	}

	member, err := svc.RetrieveMember(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	records := []*models.BorrowRecord{}
	err = svc.db.NewSelect().
		Model(&records).
		Relation("Book").
		Where("br.member_id = ?", member.ID).
		Order("br.borrowed_at DESC", "br.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return member, records, nil
}

func emailConflict(err error, email string) error {
	err = errcodes.FromDB(err, "Member")
	if errcodes.HasCode(err, "conflict") {
		return errcodes.Conflict(fmt.Sprintf("A member with email %q already exists.", email))
	}
	return err
}
