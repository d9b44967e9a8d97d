package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"clubportal/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateProfile(user *models.User) error
	List(limit, offset int) ([]*models.User, error)
	GetCount() (int, error)
	UpdatePassword(userID int, passwordHash string) error

	// password reset helpers
	SetResetToken(userID int, token string, expiresAt time.Time) error
	GetByResetToken(token string) (*models.User, error)
	// ConsumeResetToken sets the new password hash and clears both token
	// fields in one conditional update. Returns false when the token no
	// longer matches any row (already consumed or never issued).
	ConsumeResetToken(token, passwordHash string) (bool, error)

	// membership verification
	SetVerified(userID int, memberSince *string) error

	// refresh helpers
	UpdateRefresh(userID int, token string, expiresAt time.Time) error
	RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error)
	ClearRefresh(userID int) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, first_name, last_name, password_hash, role_id,
	usv_number, is_verified, verified_at, member_since,
	reset_token, reset_expires_at,
	refresh_token, refresh_expires_at, refresh_revoked,
	created_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		roleID      sql.NullInt64
		usvNumber   sql.NullString
		isVerified  sql.NullBool
		verifiedAt  sql.NullTime
		memberSince sql.NullString
		resetToken  sql.NullString
		resetExp    sql.NullTime
		rt          sql.NullString
		rte         sql.NullTime
		rr          sql.NullBool
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &roleID,
		&usvNumber, &isVerified, &verifiedAt, &memberSince,
		&resetToken, &resetExp,
		&rt, &rte, &rr,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		u.RoleID = int(roleID.Int64)
	}
	if usvNumber.Valid {
		u.USVNumber = usvNumber.String
	}
	if isVerified.Valid {
		u.IsVerified = isVerified.Bool
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.VerifiedAt = &t
	}
	if memberSince.Valid {
		s := memberSince.String
		u.MemberSince = &s
	}
	if resetToken.Valid {
		s := resetToken.String
		u.ResetToken = &s
	}
	if resetExp.Valid {
		t := resetExp.Time
		u.ResetExpiresAt = &t
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	if rr.Valid {
		u.RefreshRevoked = rr.Bool
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, first_name, last_name, password_hash, role_id,
			usv_number, is_verified, verified_at, member_since,
			reset_token, reset_expires_at,
			refresh_token, refresh_expires_at, refresh_revoked
		)
		VALUES ($1,$2,$3,$4,$5,$6,FALSE,NULL,NULL,NULL,NULL,NULL,NULL,FALSE)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.RoleID,
		user.USVNumber,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.DB.QueryRow(q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) UpdateProfile(user *models.User) error {
	const q = `
		UPDATE users
		SET first_name=$1, last_name=$2, usv_number=$3
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, user.FirstName, user.LastName, user.USVNumber, user.ID)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT id, email, first_name, last_name, role_id, usv_number, is_verified, created_at
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var usvNumber sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.RoleID, &usvNumber, &u.IsVerified, &u.CreatedAt); err != nil {
			return nil, err
		}
		if usvNumber.Valid {
			u.USVNumber = usvNumber.String
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c)
	return c, err
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	return err
}

// ===== password reset helpers =====

func (r *userRepository) SetResetToken(userID int, token string, expiresAt time.Time) error {
	// overwrites any prior live token: last writer wins
	const q = `
		UPDATE users
		SET reset_token=$1, reset_expires_at=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

func (r *userRepository) GetByResetToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1`
	u, err := scanUser(r.DB.QueryRow(q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) ConsumeResetToken(token, passwordHash string) (bool, error) {
	const q = `
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_expires_at=NULL
		WHERE reset_token=$2
	`
	res, err := r.DB.Exec(q, passwordHash, token)
	if err != nil {
		return false, fmt.Errorf("consume reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ===== membership verification =====

func (r *userRepository) SetVerified(userID int, memberSince *string) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET is_verified=TRUE, verified_at=NOW(), member_since=COALESCE($1, member_since)
		WHERE id=$2
	`, memberSince, userID)
	return err
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, token, expiresAt, userID)
	return err
}

func (r *userRepository) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	q := `
		UPDATE users
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRow(q, newToken, newExpiresAt, oldToken))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) ClearRefresh(userID int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=TRUE
		WHERE id=$1
	`, userID)
	return err
}

func (r *userRepository) GetByRefreshToken(token string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	u, err := scanUser(r.DB.QueryRow(q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}
