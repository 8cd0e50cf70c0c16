package models

import (
	"time"

	"faceattend/db"
	"faceattend/faces"
	"faceattend/utils"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	RegNumber string `gorm:"type:varchar(20);index:uniq_reg_number,unique"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique"`
	FullName  string `gorm:"type:varchar(100)"`
	Phone     string `gorm:"type:varchar(20)"`
	Password  string `gorm:"type:varchar(128)"`
	PassSalt  string `gorm:"type:varchar(200)"`
	Role      Role   `gorm:"type:tinyint(1)"`

	YearOfStudy   string `gorm:"type:varchar(20)"`
	CourseProgram string `gorm:"type:varchar(100)"`

	// Explicit consent, required before any biometric processing
	ConsentGiven     bool
	ConsentTimestamp int64
	ConsentIP        string `gorm:"type:varchar(45)"`
	ConsentVersion   string `gorm:"type:varchar(10)"`

	// Only the face encoding is kept, the enrollment photo is never stored
	FaceEncoding   []byte `gorm:"type:blob"`
	FaceEnrolledAt int64

	IsActive  bool
	LastLogin int64
}

const saltSize = 60

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return u.Password == utils.Sha512String(plainTextPassword+u.PassSalt)
}

// UserLogin accepts either the registration number or the email
func UserLogin(identifier, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "reg_number = ? OR email = ?", identifier, identifier)
	if result.Error != nil {
		return User{}, false
	}
	if !u.CheckPassword(plainTextPassword) || !u.IsActive {
		return User{}, false
	}
	return u, true
}

// HasRole reports whether the user's role grants at least the required level
func (u *User) HasRole(required Role) bool {
	return u.Role >= required
}

func (u *User) HasFaceEnrolled() bool {
	return len(u.FaceEncoding) > 0
}

func (u *User) SetFaceEncoding(encoding *faces.FaceEncoding) {
	u.FaceEncoding = utils.Float64ArrayToByteArray(encoding[:])
	u.FaceEnrolledAt = time.Now().Unix()
}

// GetFaceEncoding returns nil unless a complete encoding is stored
func (u *User) GetFaceEncoding() *faces.FaceEncoding {
	values := utils.ByteArrayToFloat64Array(u.FaceEncoding)
	if len(values) != len(faces.FaceEncoding{}) {
		return nil
	}
	var encoding faces.FaceEncoding
	copy(encoding[:], values)
	return &encoding
}

func (u *User) GiveConsent(ip, version string) {
	u.ConsentGiven = true
	u.ConsentTimestamp = time.Now().Unix()
	u.ConsentIP = ip
	u.ConsentVersion = version
}

// WithdrawConsent also erases the stored face encoding
func (u *User) WithdrawConsent() {
	u.ConsentGiven = false
	u.FaceEncoding = nil
	u.FaceEnrolledAt = 0
}

// EnrolledUsers returns all recognition candidates: active, consenting
// and with a stored encoding. Ordered by ID so matching results are
// deterministic for a given database state.
func EnrolledUsers() (users []User, err error) {
	err = db.Instance.
		Where("face_encoding IS NOT NULL AND is_active = ? AND consent_given = ?", true, true).
		Order("id").
		Find(&users).Error
	return
}

// UsersClearWithdrawnEncodings erases any face encoding whose owner no
// longer consents. Withdrawal clears the encoding inline, this sweep
// catches rows restored from backups or changed outside the API.
func UsersClearWithdrawnEncodings() (int64, error) {
	result := db.Instance.Model(&User{}).
		Where("consent_given = ? AND face_encoding IS NOT NULL", false).
		Updates(map[string]interface{}{"face_encoding": nil, "face_enrolled_at": 0})
	return result.RowsAffected, result.Error
}
