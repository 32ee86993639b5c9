package realtime

// IdColumn is the position of the id field in both VehicleRow and TripUpdateRow records
const IdColumn = 1

// VehicleColumns names the fields of a VehicleRow record, in order
var VehicleColumns = []string{
	"file_time",
	"id",
	"is_deleted",
	"trip_id",
	"route_id",
	"start_time",
	"schedule_relationship",
	"vehicle_id",
	"latitude",
	"longitude",
	"timestamp",
	"occupancy_status",
}

// TripUpdateColumns names the fields of a TripUpdateRow record, in order
var TripUpdateColumns = []string{
	"file_time",
	"id",
	"trip_id",
	"route_id",
	"start_time",
	"trip_schedule_relationship",
	"vehicle_id",
	"stop_sequence",
	"stop_id",
	"stop_schedule_relationship",
	"departure_delay",
	"departure_time",
	"timestamp",
}

// VehicleRow is a vehicle position entity flattened to one dataset row
type VehicleRow struct {
	FileTime             string
	Id                   Value
	IsDeleted            Value
	TripId               Value
	RouteId              Value
	StartTime            Value
	ScheduleRelationship Value
	VehicleId            Value
	Latitude             Value
	Longitude            Value
	Timestamp            Value
	OccupancyStatus      Value
}

// Record returns the row's fields in VehicleColumns order
func (r *VehicleRow) Record() []string {
	return []string{
		r.FileTime,
		r.Id.String(),
		r.IsDeleted.String(),
		r.TripId.String(),
		r.RouteId.String(),
		r.StartTime.String(),
		r.ScheduleRelationship.String(),
		r.VehicleId.String(),
		r.Latitude.String(),
		r.Longitude.String(),
		r.Timestamp.String(),
		r.OccupancyStatus.String(),
	}
}

// TripUpdateRow is a trip update entity flattened to one dataset row
type TripUpdateRow struct {
	FileTime                 string
	Id                       Value
	TripId                   Value
	RouteId                  Value
	StartTime                Value
	TripScheduleRelationship Value
	VehicleId                Value
	StopSequence             Value
	StopId                   Value
	StopScheduleRelationship Value
	DepartureDelay           Value
	DepartureTime            Value
	Timestamp                Value
}

// Record returns the row's fields in TripUpdateColumns order
func (r *TripUpdateRow) Record() []string {
	return []string{
		r.FileTime,
		r.Id.String(),
		r.TripId.String(),
		r.RouteId.String(),
		r.StartTime.String(),
		r.TripScheduleRelationship.String(),
		r.VehicleId.String(),
		r.StopSequence.String(),
		r.StopId.String(),
		r.StopScheduleRelationship.String(),
		r.DepartureDelay.String(),
		r.DepartureTime.String(),
		r.Timestamp.String(),
	}
}
