package db

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var CreateTablesSQL string

// Video queries

//go:embed sql/insert_video.sql
var InsertVideoSQL string

//go:embed sql/select_video_by_id.sql
var SelectVideoByIDSQL string

//go:embed sql/select_video_by_path.sql
var SelectVideoByPathSQL string

//go:embed sql/update_video_duration.sql
var UpdateVideoDurationSQL string

//go:embed sql/update_video_stop_time.sql
var UpdateVideoStopTimeSQL string

// Trim queries

//go:embed sql/insert_trim.sql
var InsertTrimSQL string

//go:embed sql/select_trims_by_video.sql
var SelectTrimsByVideoSQL string

//go:embed sql/select_latest_trim.sql
var SelectLatestTrimSQL string

//go:embed sql/select_trim_by_id.sql
var SelectTrimByIDSQL string

//go:embed sql/delete_trim.sql
var DeleteTrimSQL string
