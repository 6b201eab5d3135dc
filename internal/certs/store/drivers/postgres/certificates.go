package postgres

import (
	"context"

	"github.com/usapupgrade/certs/internal/certs/domain"
	"github.com/usapupgrade/certs/internal/certs/store"
	"gorm.io/gorm"
)

type certificatesRepo struct {
	db *gorm.DB
}

func (r *certificatesRepo) CreateCertificate(ctx context.Context, c domain.Certificate) error {
	m := certificateFromDomain(c)
	err := r.db.WithContext(ctx).Create(&m).Error

	switch constraintViolated(err) {
	case "":
		return err
	case "certificates_user_id_key":
		return store.ErrUserAlreadyCertified
	case "certificates_pkey":
		return store.ErrCertificateIDTaken
	default:
		return err
	}
}

func (r *certificatesRepo) GetCertificateByID(ctx context.Context, id string) (domain.Certificate, error) {
	var m certificateModel
	if err := r.db.WithContext(ctx).Take(&m, "certificate_id = ?", id).Error; err != nil {
		return domain.Certificate{}, mapNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *certificatesRepo) GetCertificateByUserID(ctx context.Context, userID string) (domain.Certificate, error) {
	var m certificateModel
	if err := r.db.WithContext(ctx).Take(&m, "user_id = ?", userID).Error; err != nil {
		return domain.Certificate{}, mapNotFound(err)
	}
	return m.toDomain(), nil
}

func (r *certificatesRepo) ListCertificates(ctx context.Context, afterID string, limit int) ([]domain.Certificate, error) {
	var rows []certificateModel
	err := r.db.WithContext(ctx).
		Where("certificate_id > ?", afterID).
		Order("certificate_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Certificate, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}
