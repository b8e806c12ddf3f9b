package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// LogbookRecord holds the columns every imported kind shares. The tag columns
// store the JSON literal of the original value.
type LogbookRecord struct {
	GUID      string         `gorm:"column:guid;primaryKey;type:varchar(255)"`
	UserID    string         `gorm:"column:user_id;type:text;not null"`
	Platform  string         `gorm:"column:platform;type:text;not null"`
	Modified  string         `gorm:"column:_modified;type:text;not null"`
	Meta      datatypes.JSON `gorm:"column:meta"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index"`
}

type Aircraft struct {
	LogbookRecord
	Flights []Flight `gorm:"foreignKey:AircraftGUID;references:GUID;constraint:OnDelete:CASCADE"`
}

func (Aircraft) TableName() string { return "aircraft" }

// Flight belongs to exactly one aircraft; deleting the aircraft removes it.
type Flight struct {
	LogbookRecord
	AircraftGUID string `gorm:"column:aircraft_guid;type:varchar(255);not null;index"`
}

func (Flight) TableName() string { return "flights" }

type ImagePic struct{ LogbookRecord }

func (ImagePic) TableName() string { return "image_pics" }

type LimitRules struct{ LogbookRecord }

func (LimitRules) TableName() string { return "limit_rules" }

type MyQuery struct{ LogbookRecord }

func (MyQuery) TableName() string { return "my_queries" }

type MyQueryBuild struct{ LogbookRecord }

func (MyQueryBuild) TableName() string { return "my_query_builds" }

type Pilot struct{ LogbookRecord }

func (Pilot) TableName() string { return "pilots" }

type Qualification struct{ LogbookRecord }

func (Qualification) TableName() string { return "qualifications" }

type SettingConfig struct{ LogbookRecord }

func (SettingConfig) TableName() string { return "setting_configs" }

// AllModels returns one instance of every model, parents before children,
// for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&Aircraft{},
		&Flight{},
		&ImagePic{},
		&LimitRules{},
		&MyQuery{},
		&MyQueryBuild{},
		&Pilot{},
		&Qualification{},
		&SettingConfig{},
	}
}
