package realtime

import "github.com/tidwall/gjson"

// EntityKind identifies which variant a feed entity decoded to
type EntityKind int

const (
	// EntityInvalid is an entry that is not a json object
	EntityInvalid EntityKind = iota
	// EntityUnrecognized is an object carrying neither a vehicle nor a trip_update
	EntityUnrecognized
	// EntityVehicle carries a vehicle position
	EntityVehicle
	// EntityTripUpdate carries a trip update
	EntityTripUpdate
)

// String implements Stringer for EntityKind
func (k EntityKind) String() string {
	switch k {
	case EntityInvalid:
		return "invalid"
	case EntityUnrecognized:
		return "unrecognized"
	case EntityVehicle:
		return "vehicle"
	case EntityTripUpdate:
		return "trip_update"
	}
	return "unknown"
}

// Entity is one element of a snapshot's entity list, tagged with its variant
type Entity struct {
	Kind EntityKind
	raw  gjson.Result
}

// decodeEntity determines the variant of r by key presence. vehicle takes precedence over trip_update
func decodeEntity(r gjson.Result) Entity {
	if !r.IsObject() {
		return Entity{Kind: EntityInvalid, raw: r}
	}
	if r.Get("vehicle").Exists() {
		return Entity{Kind: EntityVehicle, raw: r}
	}
	if r.Get("trip_update").Exists() {
		return Entity{Kind: EntityTripUpdate, raw: r}
	}
	return Entity{Kind: EntityUnrecognized, raw: r}
}

// get reads a nested field, absent anywhere along path is null
func (e Entity) get(path string) Value {
	return valueOf(e.raw.Get(path))
}

// vehicleRow flattens a vehicle entity
func (e Entity) vehicleRow(fileTime string) VehicleRow {
	return VehicleRow{
		FileTime:             fileTime,
		Id:                   e.get("id"),
		IsDeleted:            e.get("is_deleted"),
		TripId:               e.get("vehicle.trip.trip_id"),
		RouteId:              e.get("vehicle.trip.route_id"),
		StartTime:            e.get("vehicle.trip.start_time"),
		ScheduleRelationship: e.get("vehicle.trip.schedule_relationship"),
		VehicleId:            e.get("vehicle.vehicle.id"),
		Latitude:             e.get("vehicle.position.latitude"),
		Longitude:            e.get("vehicle.position.longitude"),
		Timestamp:            e.get("vehicle.timestamp"),
		OccupancyStatus:      e.get("vehicle.occupancy_status"),
	}
}

// tripUpdateRow flattens a trip_update entity. departure is optional under stop_time_update,
// when missing its delay and time are null
func (e Entity) tripUpdateRow(fileTime string) TripUpdateRow {
	return TripUpdateRow{
		FileTime:                 fileTime,
		Id:                       e.get("id"),
		TripId:                   e.get("trip_update.trip.trip_id"),
		RouteId:                  e.get("trip_update.trip.route_id"),
		StartTime:                e.get("trip_update.trip.start_time"),
		TripScheduleRelationship: e.get("trip_update.trip.schedule_relationship"),
		VehicleId:                e.get("trip_update.vehicle.id"),
		StopSequence:             e.get("trip_update.stop_time_update.stop_sequence"),
		StopId:                   e.get("trip_update.stop_time_update.stop_id"),
		StopScheduleRelationship: e.get("trip_update.stop_time_update.schedule_relationship"),
		DepartureDelay:           e.get("trip_update.stop_time_update.departure.delay"),
		DepartureTime:            e.get("trip_update.stop_time_update.departure.time"),
		Timestamp:                e.get("trip_update.timestamp"),
	}
}
