// Package config loads the pipeline configuration from CP_-prefixed
// environment variables over a set of defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"cp-etl/internal/aggregate"
	"cp-etl/internal/normalize"
)

// SheetRef addresses one spreadsheet tab range.
type SheetRef struct {
	ID    string
	Range string
}

type SFTPConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	RemoteDir string
	// Files are the SIS export names pulled into the raw data dir.
	Files []string
}

type SheetsConfig struct {
	CredentialsFile string

	// Intake sources.
	Attendance SheetRef
	Agreement  SheetRef
	WBL        SheetRef
	Internship SheetRef
	Partner    SheetRef

	// Published destinations.
	AttendanceOut SheetRef
	FinalOut      SheetRef
}

type S3Config struct {
	Region string
	Bucket string
	Prefix string
}

type SMTPConfig struct {
	Host string
	Port int
	From string
	To   []string
	User string
	Pass string
}

type FilterConfig struct {
	TermPrefix   string
	DropExited   bool
	DropNoCredit bool
	DropUnmapped bool
}

type Config struct {
	RawDir       string
	InterimDir   string
	ProcessedDir string

	SFTP    SFTPConfig
	Sheets  SheetsConfig
	S3      S3Config
	SMTP    SMTPConfig
	Filters FilterConfig

	// DistrictCode is the prefix composite identifiers carry for this
	// district (e.g. "hps" in "hps123456").
	DistrictCode string
	// KeyPolicy: "drop" removes rows for other districts during key
	// standardization, "pass" keeps them unchanged.
	KeyPolicy normalize.KeyPolicy
	// BlankZeroScope: "all" blanks every zero in the final view (observed
	// behavior), "counts" restricts it to the count columns.
	BlankZeroScope aggregate.BlankZeroScope
	// TopicWindow pins the attendance-percentage window to these topic
	// columns. Empty means every topic column pivoted in this run.
	TopicWindow []string
}

var defaults = map[string]interface{}{
	"raw_dir":          "data/raw",
	"interim_dir":      "data/interim",
	"processed_dir":    "data/processed",
	"sftp_port":        22,
	"sftp_remote_dir":  "/exports",
	"sftp_files":       "students.csv,current_courses.csv,stored_grades.csv",
	"smtp_port":        587,
	"term_prefix":      "33",
	"drop_exited":      true,
	"drop_no_credit":   true,
	"drop_unmapped":    true,
	"district_code":    "hps",
	"key_policy":       "drop",
	"blank_zero_scope": "all",
	"s3_region":        "us-east-1",
}

// Load reads the configuration. Env var CP_SFTP_HOST maps to key sftp_host.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config defaults: %w", err)
	}
	if err := k.Load(env.Provider("CP_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CP_"))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config env: %w", err)
	}

	cfg := Config{
		RawDir:       k.String("raw_dir"),
		InterimDir:   k.String("interim_dir"),
		ProcessedDir: k.String("processed_dir"),
		SFTP: SFTPConfig{
			Host:      k.String("sftp_host"),
			Port:      k.Int("sftp_port"),
			User:      k.String("sftp_user"),
			Pass:      k.String("sftp_pass"),
			RemoteDir: k.String("sftp_remote_dir"),
			Files:     splitList(k.String("sftp_files")),
		},
		Sheets: SheetsConfig{
			CredentialsFile: k.String("sheets_credentials_file"),
			Attendance:      sheetRef(k, "sheet_attendance"),
			Agreement:       sheetRef(k, "sheet_agreement"),
			WBL:             sheetRef(k, "sheet_wbl"),
			Internship:      sheetRef(k, "sheet_internship"),
			Partner:         sheetRef(k, "sheet_partner"),
			AttendanceOut:   sheetRef(k, "sheet_attendance_out"),
			FinalOut:        sheetRef(k, "sheet_final_out"),
		},
		S3: S3Config{
			Region: k.String("s3_region"),
			Bucket: k.String("s3_bucket"),
			Prefix: k.String("s3_prefix"),
		},
		SMTP: SMTPConfig{
			Host: k.String("smtp_host"),
			Port: k.Int("smtp_port"),
			From: k.String("smtp_from"),
			To:   splitList(k.String("smtp_to")),
			User: k.String("smtp_user"),
			Pass: k.String("smtp_pass"),
		},
		Filters: FilterConfig{
			TermPrefix:   k.String("term_prefix"),
			DropExited:   k.Bool("drop_exited"),
			DropNoCredit: k.Bool("drop_no_credit"),
			DropUnmapped: k.Bool("drop_unmapped"),
		},
		DistrictCode: k.String("district_code"),
		TopicWindow:  splitList(k.String("topic_window")),
	}

	switch v := k.String("key_policy"); v {
	case "drop":
		cfg.KeyPolicy = normalize.DropNonMatching
	case "pass":
		cfg.KeyPolicy = normalize.PassThrough
	default:
		return Config{}, fmt.Errorf("config: unknown key_policy %q", v)
	}
	switch v := k.String("blank_zero_scope"); v {
	case "all":
		cfg.BlankZeroScope = aggregate.ScopeAll
	case "counts":
		cfg.BlankZeroScope = aggregate.ScopeCounts
	default:
		return Config{}, fmt.Errorf("config: unknown blank_zero_scope %q", v)
	}
	return cfg, nil
}

func sheetRef(k *koanf.Koanf, prefix string) SheetRef {
	return SheetRef{
		ID:    k.String(prefix + "_id"),
		Range: k.String(prefix + "_range"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
