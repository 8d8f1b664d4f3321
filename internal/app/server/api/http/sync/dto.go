package sync

import "leafwise/internal/domain/sync"

type getChangesInput struct {
	Body sync.GetChangesRequest
}

type getChangesOutput struct {
	Body sync.GetChangesResponse
}

type batchSyncInput struct {
	Body sync.BatchSyncRequest
}

type batchSyncOutput struct {
	Body sync.BatchSyncResponse
}

type getStatusInput struct{}

type getStatusOutput struct {
	Body *sync.SyncStatus
}

type getConflictsInput struct{}

type getConflictsOutput struct {
	Body conflictsResponse
}

type conflictsResponse struct {
	Conflicts []sync.Conflict `json:"conflicts"`
	Total     int             `json:"total"`
}

type resolveConflictInput struct {
	ID   int `path:"id" doc:"ID конфликта"`
	Body sync.ResolveConflictRequest
}

type resolveConflictOutput struct {
	Body sync.ResolveConflictResponse
}

type getDevicesInput struct{}

type getDevicesOutput struct {
	Body devicesResponse
}

type devicesResponse struct {
	Devices []sync.DeviceInfo `json:"devices"`
	Total   int               `json:"total"`
}

type removeDeviceInput struct {
	ID string `path:"id" doc:"ID устройства"`
}

type removeDeviceOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
