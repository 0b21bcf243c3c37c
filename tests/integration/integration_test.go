package integration

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/golang/protobuf/ptypes/empty"
	"github.com/golang/protobuf/ptypes/timestamp"

	rovev1 "rove/gen/go/rove/v1"
	"rove/connectors/testdata"
	"rove/internal/service"
	"rove/pkg/config"
	"rove/pkg/dataswitch"
	"rove/pkg/pipeline"
	"rove/pkg/scheduler"
	"rove/pkg/server"
)

const (
	dataLenSingle  = 3
	dataLenSpatial = 1000
)

const hardcodedPipeline = `
[[step]]
name = "step_check"
[step.step_check]
max = 3.0

[[step]]
name = "spike_check"
[step.spike_check]
max = 3.0

[[step]]
name = "buddy_check"
[step.buddy_check]
radii = 5000.0
min_buddies = 2
threshold = 2.0
max_elev_diff = 200.0
elev_gradient = 0.0
min_std = 1.0
num_iterations = 2

[[step]]
name = "sct"
[step.sct]
num_min = 5
num_max = 100
inner_radius = 50000.0
outer_radius = 150000.0
num_iterations = 5
num_min_prof = 20
min_elev_diff = 200.0
min_horizontal_scale = 10000.0
vertical_scale = 200.0
pos = 4.0
neg = 8.0
eps2 = 0.5
`

func serverConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Name: "rove-test", Environment: "development"},
		GRPC: config.GRPCConfig{
			Port:              1337,
			MaxRecvMsgSize:    16 * 1024 * 1024,
			MaxSendMsgSize:    16 * 1024 * 1024,
			MaxConcurrentConn: 100,
			KeepAlive: config.KeepAliveConfig{
				MaxConnectionIdle: 15 * time.Minute,
				MaxConnectionAge:  30 * time.Minute,
				Time:              5 * time.Minute,
				Timeout:           20 * time.Second,
			},
		},
		Log:       config.LogConfig{Level: "error"},
		Pipelines: config.PipelinesConfig{Dir: "unused"},
	}
}

// setUpRove serves the full stack over an in-process listener and returns
// a connected client.
func setUpRove(t *testing.T) rovev1.RoveClient {
	t.Helper()

	p, err := pipeline.Parse([]byte(hardcodedPipeline))
	require.NoError(t, err)

	dsw := dataswitch.New()
	require.NoError(t, dsw.Register("test", &testdata.Source{
		DataLenSingle:  dataLenSingle,
		DataLenSeries:  1,
		DataLenSpatial: dataLenSpatial,
	}))

	sched := scheduler.New(map[string]*pipeline.Pipeline{"hardcoded": p}, dsw)

	srv := server.New(serverConfig())
	rovev1.RegisterRoveServer(srv.GetEngine(), service.NewRoveService(sched))

	lis := bufconn.Listen(1 << 20)
	go func() {
		if err := srv.Serve(lis); err != nil {
			t.Logf("server exited: %v", err)
		}
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return rovev1.NewRoveClient(conn)
}

func validateRequest() *rovev1.ValidateRequest {
	return &rovev1.ValidateRequest{
		DataSource:     "test",
		StartTime:      &timestamp.Timestamp{},
		EndTime:        &timestamp.Timestamp{},
		TimeResolution: "PT5M",
		SpaceSpec:      &rovev1.ValidateRequest_All{All: &empty.Empty{}},
		Pipeline:       "hardcoded",
	}
}

func TestIntegrationHardcodedPipeline(t *testing.T) {
	client := setUpRove(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := client.Validate(ctx, validateRequest())
	require.NoError(t, err)

	require.Len(t, resp.GetResults(), 4)
	names := make(map[string]bool)
	for _, result := range resp.GetResults() {
		names[result.GetCheck()] = true
		assert.Len(t, result.GetFlagSeries(), dataLenSpatial,
			"check %s should flag every station", result.GetCheck())

		// Uniform observations: nothing may fail, only pass or be too
		// isolated for a spatial verdict.
		for _, fs := range result.GetFlagSeries() {
			for _, flag := range fs.GetFlags() {
				if flag != rovev1.Flag_FLAG_PASS && flag != rovev1.Flag_FLAG_ISOLATED {
					t.Fatalf("check %s flagged %s on uniform data", result.GetCheck(), flag)
				}
			}
		}
	}
	for _, want := range []string{"step_check", "spike_check", "buddy_check", "sct"} {
		assert.True(t, names[want], "missing result for %s", want)
	}

	// Order reflects the pipeline.
	assert.Equal(t, "step_check", resp.GetResults()[0].GetCheck())
	assert.Equal(t, "sct", resp.GetResults()[3].GetCheck())
}

func TestIntegrationUnknownPipeline(t *testing.T) {
	client := setUpRove(t)

	req := validateRequest()
	req.Pipeline = "nosuch"

	_, err := client.Validate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestIntegrationUnknownDataSource(t *testing.T) {
	client := setUpRove(t)

	req := validateRequest()
	req.DataSource = "nosuch"

	_, err := client.Validate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestIntegrationBadTimeResolution(t *testing.T) {
	client := setUpRove(t)

	req := validateRequest()
	req.TimeResolution = "every 5 minutes"

	_, err := client.Validate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
